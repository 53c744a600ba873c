package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ahlgren/helmsman/auth"
	"github.com/ahlgren/helmsman/directory"
	"github.com/ahlgren/helmsman/internal/util"
)

var usersFile string

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the user directory file",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add a user to the directory file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := util.Normalize(strings.TrimSpace(args[0]))
		if username == "" {
			return errors.New("username must not be empty")
		}

		fmt.Fprint(os.Stderr, "Password: ")
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(password, "\r\n")
		if password == "" {
			return errors.New("password must not be empty")
		}

		hash, err := auth.NewBcryptHasher().Hash(password)
		if err != nil {
			return err
		}

		dir, err := directory.LoadFile(usersFile)
		if err != nil {
			// A missing file means a fresh directory.
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			dir = directory.New()
		}
		dir.Add(directory.User{Username: username, PasswordHash: hash})

		if err := dir.SaveFile(usersFile); err != nil {
			return err
		}
		fmt.Printf("Added user %q to %s\n", username, usersFile)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users in the directory file",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := directory.LoadFile(usersFile)
		if err != nil {
			return err
		}
		for _, u := range dir.Users() {
			fmt.Printf("%s (passkeys: %d)\n", u.Username, len(u.Passkeys))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.PersistentFlags().StringVar(&usersFile, "users-file", "users.json", "Path to the users file")
}
