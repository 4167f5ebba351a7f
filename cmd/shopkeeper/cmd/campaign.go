package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "List and launch marketing campaigns",
}

var campaignListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available campaign offers",
	Args:  cobra.NoArgs,
	RunE:  runCampaignList,
}

var campaignLaunchCmd = &cobra.Command{
	Use:   "launch <offer-id>",
	Short: "Buy and start a campaign",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignLaunch,
}

func init() {
	rootCmd.AddCommand(campaignCmd)
	campaignCmd.AddCommand(campaignListCmd)
	campaignCmd.AddCommand(campaignLaunchCmd)
}

func runCampaignList(cmd *cobra.Command, args []string) error {
	store, engine, err := openEngine()
	if err != nil {
		return err
	}
	defer store.Close()

	for _, o := range engine.CampaignOffers() {
		fmt.Printf("%-18s %s: %d days, %.1fx boost, cost %s\n",
			o.ID, o.Name, o.DurationDays, o.Boost, o.Cost.StringFixed(2))
	}
	return nil
}

func runCampaignLaunch(cmd *cobra.Command, args []string) error {
	store, engine, err := openEngine()
	if err != nil {
		return err
	}
	defer store.Close()

	c, err := engine.LaunchCampaign(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Launched %s through %s\n", c.Name, c.End.Format("2006-01-02"))
	return nil
}
