package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/txledger/internal/adapter/http/dto"
	"github.com/iho/txledger/internal/domain"
)

// Accounts the generator targets. 106 has no row, so its messages are dead-lettered.
var generatorAccounts = []string{"101", "102", "103", "104", "105", "106"}

const (
	detailsLength = 20
	maxAmount     = 1000
)

type options struct {
	baseURL  string
	timeout  time.Duration
	interval time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "txledger-cli",
		Short:         "txledger CLI tool",
		Long:          `A command line interface for driving and inspecting the txledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the txledger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(newGenerateCmd(opts), newBalanceCmd(opts), newLedgerCmd(opts), newMigrateCmd())
	return rootCmd
}

func newGenerateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate N",
		Short: "Submit N random transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("N must be a positive integer, got %q", args[0])
			}
			return generate(cmd, opts, n)
		},
	}
	cmd.Flags().DurationVar(&opts.interval, "interval", 10*time.Millisecond, "Delay between submissions")
	return cmd
}

func newBalanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balance ID",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showBalance(cmd, opts, args[0])
		},
	}
}

func newLedgerCmd(opts *options) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "reconcile ID",
		Short: "Check one account against its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reconcileAccount(cmd, opts, args[0])
		},
	})

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return checkConsistency(cmd, opts)
		},
	})
	return ledgerCmd
}

// randomTransaction builds a generator request.
func randomTransaction(r *rand.Rand) dto.CreateTransactionRequest {
	types := domain.TransactionTypes()
	return dto.CreateTransactionRequest{
		AccountID:       generatorAccounts[r.IntN(len(generatorAccounts))],
		TransactionType: string(types[r.IntN(len(types))]),
		Amount:          decimal.NewFromInt(int64(r.IntN(maxAmount) + 1)),
		Details:         randomLetters(r, detailsLength),
	}
}

func randomLetters(r *rand.Rand, n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(letters[r.IntN(len(letters))])
	}
	return b.String()
}

func generate(cmd *cobra.Command, opts *options, n int) error {
	client := &http.Client{Timeout: opts.timeout}
	r := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	out := cmd.OutOrStdout()

	failed := 0
	for i := range n {
		if i > 0 && opts.interval > 0 {
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(opts.interval):
			}
		}

		req := randomTransaction(r)
		body, err := json.Marshal(req)
		if err != nil {
			return err
		}

		resp, err := client.Post(opts.baseURL+"/api/v1/transactions", "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("submit transaction: %w", err)
		}
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusAccepted {
			failed++
			fmt.Fprintf(out, "%s %s %s -> %d %s\n", req.AccountID, req.TransactionType, req.Amount, resp.StatusCode, strings.TrimSpace(string(respBody)))
			continue
		}

		var submitted dto.SubmitTransactionResponse
		if err := json.Unmarshal(respBody, &submitted); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		fmt.Fprintf(out, "%s %s %s -> %s\n", req.AccountID, req.TransactionType, req.Amount, submitted.TransactionID)
	}

	fmt.Fprintf(out, "Submitted %d of %d transactions\n", n-failed, n)
	return nil
}

func showBalance(cmd *cobra.Command, opts *options, accountID string) error {
	client := &http.Client{Timeout: opts.timeout}
	resp, err := client.Get(opts.baseURL + "/api/v1/accounts/" + accountID + "/balance")
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("balance lookup failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var balance dto.BalanceResponse
	if err := json.Unmarshal(body, &balance); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Account %s balance: %s\n", balance.AccountID, balance.Balance.StringFixed(2))
	return nil
}

func checkConsistency(cmd *cobra.Command, opts *options) error {
	client := &http.Client{Timeout: opts.timeout}
	resp, err := client.Get(opts.baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	out := cmd.OutOrStdout()

	var report dto.ConsistencyResponse
	if err := json.Unmarshal(body, &report); err != nil {
		return fmt.Errorf("consistency check failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if resp.StatusCode != http.StatusOK || !report.Consistent {
		fmt.Fprintln(out, "Consistency check FAILED")
		for _, d := range report.Discrepancies {
			fmt.Fprintf(out, "  account %s: recorded %s, computed %s\n", d.AccountID, d.RecordedBalance, d.ComputedBalance)
		}
		return fmt.Errorf("ledger inconsistent: %d discrepancies", len(report.Discrepancies))
	}

	fmt.Fprintln(out, "Consistency check PASSED")
	fmt.Fprintf(out, "Accounts checked: %d\n", report.TotalAccounts)
	return nil
}

func reconcileAccount(cmd *cobra.Command, opts *options, accountID string) error {
	client := &http.Client{Timeout: opts.timeout}
	resp, err := client.Get(opts.baseURL + "/api/v1/ledger/accounts/" + accountID)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("reconcile failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result dto.ReconciliationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Account %s: recorded %s, computed %s\n", result.AccountID, result.RecordedBalance, result.ComputedBalance)
	if !result.Reconciled {
		return fmt.Errorf("account %s off by %s", result.AccountID, result.Difference)
	}
	return nil
}
