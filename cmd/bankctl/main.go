// Command bankctl is an operator tool for the bank document: it prints
// credential digests for the admin configuration, shows an account, and
// credits balances.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/utsabduwadi/bank-management-system/internal/auth"
	"github.com/utsabduwadi/bank-management-system/internal/bank"
	"github.com/utsabduwadi/bank-management-system/internal/storage"
	"github.com/utsabduwadi/bank-management-system/internal/storage/jsonfile"
	"github.com/utsabduwadi/bank-management-system/internal/storage/postgres"
)

const usage = `usage: bankctl <command> [flags] [args]

commands:
  digest <password>            print a digest for ADMIN_PASSWORD_DIGEST
  show <username>              print balance and transaction history
  credit <username> <amount>   add funds to an account
`

func main() {
	_ = godotenv.Load()
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "bankctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}
	cmd, rest := args[0], args[1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(out)
	hasherName := fs.String("hasher", envOr("PASSWORD_HASHER", auth.HasherSHA256), "password hasher: sha256 or bcrypt")
	dataFile := fs.String("data-file", envOr("DATA_FILE", jsonfile.DefaultPath), "JSON document path")
	databaseURL := fs.String("database-url", os.Getenv("DATABASE_URL"), "use Postgres instead of the JSON file")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	hasher, err := auth.NewHasher(*hasherName)
	if err != nil {
		return err
	}

	switch cmd {
	case "digest":
		return digest(out, hasher, fs.Args())
	case "show", "credit":
		store, err := openStore(ctx, *dataFile, *databaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		svc := bank.NewService(store, hasher)
		if cmd == "show" {
			return show(ctx, out, svc, fs.Args())
		}
		return credit(ctx, out, svc, fs.Args())
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func openStore(ctx context.Context, dataFile, databaseURL string) (storage.DocumentStore, error) {
	if databaseURL != "" {
		return postgres.NewStore(ctx, databaseURL)
	}
	return jsonfile.New(dataFile), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
