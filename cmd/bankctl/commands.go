package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/utsabduwadi/bank-management-system/internal/auth"
	"github.com/utsabduwadi/bank-management-system/internal/bank"
)

func digest(out io.Writer, hasher auth.Hasher, args []string) error {
	if len(args) != 1 {
		return errors.New("digest takes exactly one password")
	}
	d, err := hasher.Digest(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(out, d)
	return nil
}

func show(ctx context.Context, out io.Writer, svc *bank.Service, args []string) error {
	if len(args) != 1 {
		return errors.New("show takes exactly one username")
	}
	user, err := svc.Account(ctx, args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	fmt.Fprintf(out, "%s (%s) balance %s\n", user.Username, user.AccountType, user.Balance)
	if len(user.Transactions) == 0 {
		fmt.Fprintln(out, "No transactions found.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tCOUNTERPARTY\tAMOUNT")
	for _, tx := range user.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tx.Time, tx.Kind, tx.Counterparty, tx.Amount)
	}
	return tw.Flush()
}

func credit(ctx context.Context, out io.Writer, svc *bank.Service, args []string) error {
	if len(args) != 2 {
		return errors.New("credit takes a username and an amount")
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("amount %q: %w", args[1], err)
	}
	balance, err := svc.Credit(ctx, args[0], amount)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	fmt.Fprintf(out, "%s balance %s\n", args[0], balance)
	return nil
}
