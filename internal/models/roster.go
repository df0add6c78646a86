package models

// DefaultTeams returns the canonical roster written when the store is empty
// and on every new game. Team ids are stable for the lifetime of a game
// session; a new game replaces the whole set with this roster.
func DefaultTeams() []Team {
	return []Team{
		{
			ID:    1,
			Name:  "Phoenix",
			Color: "red",
			Image: "https://dreamersia.com/wp-content/uploads/2023/06/Hong_Hy_the_legendary_phoenix_majestic_bright_vibrant_sacred_go_aa9b74f0-9e4e-4b44-9ad0-2e42c2733cfe.png",
			Theme: Theme{
				Primary:   "bg-red-500",
				Secondary: "bg-red-100",
				Text:      "text-red-700",
				Border:    "border-red-300",
				Hover:     "hover:bg-red-600",
			},
		},
		{
			ID:    2,
			Name:  "Dragons",
			Color: "blue",
			Image: "https://images.unsplash.com/photo-1608889825103-eb5ed706fc64?auto=format&fit=crop&q=80&w=500",
			Theme: Theme{
				Primary:   "bg-blue-500",
				Secondary: "bg-blue-100",
				Text:      "text-blue-700",
				Border:    "border-blue-300",
				Hover:     "hover:bg-blue-600",
			},
		},
		{
			ID:    3,
			Name:  "Tigers",
			Color: "amber",
			Image: "https://images.unsplash.com/photo-1561731216-c3a4d99437d5?auto=format&fit=crop&q=80&w=500",
			Theme: Theme{
				Primary:   "bg-amber-500",
				Secondary: "bg-amber-100",
				Text:      "text-amber-700",
				Border:    "border-amber-300",
				Hover:     "hover:bg-amber-600",
			},
		},
		{
			ID:    4,
			Name:  "Panthers",
			Color: "purple",
			Image: "https://images.unsplash.com/photo-1456926631375-92c8ce872def?auto=format&fit=crop&q=80&w=500",
			Theme: Theme{
				Primary:   "bg-purple-500",
				Secondary: "bg-purple-100",
				Text:      "text-purple-700",
				Border:    "border-purple-300",
				Hover:     "hover:bg-purple-600",
			},
		},
	}
}
