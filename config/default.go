package config

// Default returns the built-in scenario: a small mechanical keyboard switch
// shop with two suppliers, modest working capital and a growth ladder of
// locked products.
func Default() *Config {
	return &Config{
		StartDate:        "2026-01-01",
		EventProbability: 0.04,
		Accounts: []AccountConfig{
			{ID: "cash", Name: "Business Checking", Type: "CHECKING", OpeningBalance: "25000.00"},
			{ID: "savings", Name: "Business Savings", Type: "SAVINGS", OpeningBalance: "5000.00"},
			{ID: "credit-card", Name: "Business Credit Card", Type: "CREDIT_CARD", CreditLimit: "10000.00"},
			{ID: "inventory", Name: "Inventory", Type: "FIXED_ASSET"},
			{ID: "accounts-payable", Name: "Accounts Payable", Type: "LOAN"},
			{ID: "loans-payable", Name: "Loans Payable", Type: "LOAN"},
			{ID: "equity", Name: "Owner Equity", Type: "EQUITY"},
			{ID: "sales-revenue", Name: "Sales Revenue", Type: "REVENUE"},
			{ID: "cogs", Name: "Cost of Goods Sold", Type: "EXPENSE"},
			{ID: "marketing-expense", Name: "Marketing", Type: "EXPENSE"},
			{ID: "interest-expense", Name: "Interest", Type: "EXPENSE"},
			{ID: "rent-expense", Name: "Rent", Type: "EXPENSE"},
			{ID: "payroll-expense", Name: "Payroll", Type: "EXPENSE"},
			{ID: "software-expense", Name: "Software Subscriptions", Type: "EXPENSE"},
		},
		Products: []ProductConfig{
			{
				ID: "linear-red", Name: "Crimson Linear Switches (70 pack)", Category: "switches",
				BaseDemand: 42, PriceSensitivity: 1.4, Price: "34.99", Unlocked: true,
				Attributes: map[string]string{"type": "linear", "sound": "quiet"},
			},
			{
				ID: "tactile-brown", Name: "Walnut Tactile Switches (70 pack)", Category: "switches",
				BaseDemand: 35, PriceSensitivity: 1.2, Price: "39.99", Unlocked: true,
				Attributes: map[string]string{"type": "tactile", "sound": "moderate"},
			},
			{
				ID: "clicky-jade", Name: "Jade Clicky Switches (70 pack)", Category: "switches",
				BaseDemand: 21, PriceSensitivity: 1.0, Price: "44.99",
				Attributes: map[string]string{"type": "clicky", "sound": "loud"},
			},
			{
				ID: "silent-ink", Name: "Ink Silent Linears (70 pack)", Category: "switches",
				BaseDemand: 17, PriceSensitivity: 0.9, Price: "54.99",
				Attributes: map[string]string{"type": "linear", "sound": "silent"},
			},
			{
				ID: "keycaps-pbt", Name: "PBT Keycap Set", Category: "accessories",
				BaseDemand: 14, PriceSensitivity: 1.1, Price: "79.99",
				Attributes: map[string]string{"type": "keycaps"},
			},
		},
		Vendors: []VendorConfig{
			{
				ID: "switchworks", Name: "SwitchWorks Ltd", Reliability: 0.92,
				LeadTimeDays: 5, PaymentTermsDays: 30, MinimumOrder: "200.00",
				ShippingFlatFee: "25.00",
				Tiers: []TierConfig{
					{ProductID: "linear-red", MinQuantity: 1, MaxQuantity: 49, UnitCost: "14.50"},
					{ProductID: "linear-red", MinQuantity: 50, MaxQuantity: 199, UnitCost: "12.75"},
					{ProductID: "linear-red", MinQuantity: 200, UnitCost: "11.00"},
					{ProductID: "tactile-brown", MinQuantity: 1, MaxQuantity: 49, UnitCost: "16.00"},
					{ProductID: "tactile-brown", MinQuantity: 50, UnitCost: "14.25"},
					{ProductID: "clicky-jade", MinQuantity: 1, UnitCost: "18.50"},
				},
			},
			{
				ID: "keebsupply", Name: "Keeb Supply Co", Reliability: 0.85,
				LeadTimeDays: 9, PaymentTermsDays: 14, MinimumOrder: "500.00",
				ShippingFlatFee: "10.00", ShippingRate: "0.02",
				Tiers: []TierConfig{
					{ProductID: "linear-red", MinQuantity: 1, UnitCost: "13.25"},
					{ProductID: "silent-ink", MinQuantity: 1, MaxQuantity: 99, UnitCost: "24.00"},
					{ProductID: "silent-ink", MinQuantity: 100, UnitCost: "21.50"},
					{ProductID: "keycaps-pbt", MinQuantity: 1, UnitCost: "38.00"},
				},
			},
		},
		Recurring: []RecurringItem{
			{ID: "rent", Description: "Warehouse rent", Amount: "1800.00", Cadence: "MONTHLY", DueDay: 1, AccountID: "rent-expense"},
			{ID: "payroll", Description: "Part-time packer payroll", Amount: "950.00", Cadence: "MONTHLY", DueDay: 15, AccountID: "payroll-expense"},
			{ID: "storefront", Description: "Storefront platform fee", Amount: "29.00", Cadence: "MONTHLY", DueDay: 3, AccountID: "software-expense"},
			{ID: "bookkeeping", Description: "Bookkeeping service", Amount: "240.00", Cadence: "YEARLY", DueDay: 10, DueMonth: 1, AccountID: "software-expense"},
		},
		LoanOffers: []LoanOffer{
			{ID: "starter", Name: "Starter working capital loan", Principal: "10000.00", AnnualRate: 0.09, TermMonths: 24},
			{ID: "growth", Name: "Growth expansion loan", Principal: "30000.00", AnnualRate: 0.075, TermMonths: 48},
		},
		CampaignOffers: []CampaignOffer{
			{ID: "social-blitz", Name: "Social media blitz", Target: "ALL", DurationDays: 7, Boost: 1.5, Cost: "600.00"},
			{ID: "switch-spotlight", Name: "Switch category spotlight", Target: "CATEGORY", TargetID: "switches", DurationDays: 14, Boost: 1.8, Cost: "1400.00"},
		},
		Unlocks: []UnlockRule{
			{ID: "unlock-clicky", RevenueAtLeast: "10000.00", ProductID: "clicky-jade",
				Message: "Jade clicky switches are now available to stock"},
			{ID: "unlock-silent", RevenueAtLeast: "25000.00", ProductID: "silent-ink",
				Message: "Ink silent linears are now available to stock"},
			{ID: "unlock-keycaps", RevenueAtLeast: "50000.00", ProductID: "keycaps-pbt",
				Message: "PBT keycap sets are now available to stock"},
		},
		EventTemplates: []EventTemplate{
			{Name: "Streamer shoutout", Description: "A popular streamer showed off their build",
				MinDays: 3, MaxDays: 7, MinBoost: 1.5, MaxBoost: 2.5},
			{Name: "Silent switch trend", Description: "Office-friendly boards are trending",
				MinDays: 7, MaxDays: 14, MinBoost: 1.4, MaxBoost: 2.0,
				Filters: map[string]string{"sound": "silent"}},
			{Name: "Clicky nostalgia wave", Description: "Retro typewriter sound is back",
				MinDays: 5, MaxDays: 10, MinBoost: 1.3, MaxBoost: 1.9,
				Filters: map[string]string{"type": "clicky"}},
		},
	}
}
