package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/team-lineup/internal/config"
	"github.com/iliyamo/team-lineup/internal/utils"
)

var (
	tokenSubject string
	tokenTTL     int
	hashCost     int
)

// tokenCmd mints a coach access token without going through /v1/auth/login.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed coach access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.AccessTTLMin
		}
		subject := tokenSubject
		if subject == "" {
			subject = cfg.CoachUsername
		}
		tok, err := utils.NewAccessToken(cfg.JWTSecret, subject, utils.RoleCoach, ttl)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(tok)
	},
}

// hashPasswordCmd prints a bcrypt hash for COACH_PASSWORD_HASH.  The
// password is read from the first argument or from stdin.
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for COACH_PASSWORD_HASH",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var plain string
		if len(args) == 1 {
			plain = args[0]
		} else {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			plain = strings.TrimRight(line, "\r\n")
		}
		if plain == "" {
			return fmt.Errorf("empty password")
		}
		hash, err := utils.HashPassword(plain, hashCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "Token subject (default: COACH_USERNAME)")
	tokenCmd.Flags().IntVar(&tokenTTL, "ttl", 0, "Lifetime in minutes (default: ACCESS_TOKEN_TTL_MIN)")
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", 12, "bcrypt cost")
}
