package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mindhub-service/internal/pkg/utils"
	"strings"

	"github.com/spf13/cobra"
)

func newOpsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "Helpers for the internal ops endpoints",
	}

	hashKey := &cobra.Command{
		Use:   "hash-key",
		Short: "Read an API key from stdin and print the bcrypt hash for security.ops_api_key_hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := hashAPIKey(cmd.InOrStdin())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			c.log.Info("Ops API key hashed")
			return nil
		},
	}

	cmd.AddCommand(hashKey)
	return cmd
}

func hashAPIKey(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	key := strings.TrimSpace(line)
	if key == "" {
		return "", errors.New("api key is empty")
	}
	return utils.HashSecret(key)
}
