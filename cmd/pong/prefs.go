package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pong/internal/storage"
)

var flagReset bool

var prefsCmd = &cobra.Command{
	Use:   "prefs [user]",
	Short: "Show or reset saved preferences",
	Long: `Display the setup each user last played with. Local play is saved
under the user "local"; SSH sessions under the SSH user name.

Examples:
  pong prefs
  pong prefs alice
  pong prefs alice --reset`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPrefs,
}

func init() {
	prefsCmd.Flags().BoolVar(&flagReset, "reset", false, "Forget the user's preferences")
}

func runPrefs(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening preferences database: %v", err)
	}
	defer store.Close()

	users := args
	if len(users) == 0 {
		if flagReset {
			fail("--reset needs a user")
		}
		users, err = store.Users()
		if err != nil {
			fail("listing users: %v", err)
		}
	}

	if flagReset {
		if err := store.DeletePreferences(users[0]); err != nil {
			fail("resetting %s: %v", users[0], err)
		}
		fmt.Printf("Preferences of %s reset.\n", users[0])
		return
	}

	if len(users) == 0 {
		fmt.Println("No preferences saved yet.")
		return
	}

	fmt.Printf("  %-12s  %-8s  %-7s  %-10s  %s\n", "User", "Variant", "Mode", "Difficulty", "Updated")
	fmt.Printf("  %-12s  %-8s  %-7s  %-10s  %s\n", "----", "-------", "----", "----------", "-------")
	for _, user := range users {
		p, found, err := store.LoadPreferences(user)
		if err != nil {
			fail("loading %s: %v", user, err)
		}
		updated := "never"
		if found {
			updated = p.UpdatedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-12s  %-8s  %-7s  %-10s  %s\n", user, p.Variant, p.Mode, p.Difficulty, updated)
	}
}
