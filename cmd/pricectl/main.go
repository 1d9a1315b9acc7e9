// Command pricectl is an operator CLI for the catalog backend: inspect
// products and special prices and run the mutation flows from a terminal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"pricedesk/internal/backend"
	"pricedesk/internal/domain/pricing"
)

const usage = `usage: pricectl [flags] <command> [args]

commands:
  products                          list catalog products
  list                              list special prices
  get <id>                          show one special price
  create <name> <email> <productID> <price>
                                    create a special price for a new user
  add <id> <productID> <price>      add a product override to an existing user
  update <id> <productID> <price>   change the price of an existing override
  delete <id>                       delete a special price
  delete-product <id> <productID>   delete one product override
`

func main() {
	var backendURL string
	flag.StringVar(&backendURL, "backend-url", "", "catalog backend base URL (or API_BASE_URL env)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if backendURL == "" {
		backendURL = os.Getenv("API_BASE_URL")
	}
	if backendURL == "" {
		slog.Error("backend URL is required: set --backend-url or API_BASE_URL")
		os.Exit(1)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, backendURL, flag.Args()); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, backendURL string, args []string) error {
	client := backend.NewClient(backendURL)
	products := backend.NewProductRepository(client)
	prices := backend.NewSpecialPriceRepository(client)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "products":
		list, err := products.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)

	case "list":
		list, err := prices.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)

	case "get":
		if len(rest) != 1 {
			return errors.New("usage: get <id>")
		}
		sp, err := prices.GetByID(ctx, rest[0])
		if err != nil {
			return err
		}
		return printJSON(sp)

	case "create":
		if len(rest) != 4 {
			return errors.New("usage: create <name> <email> <productID> <price>")
		}
		price, err := decimal.NewFromString(rest[3])
		if err != nil {
			return errors.Wrap(err, "parse price")
		}
		st, err := prices.Create(ctx, pricing.CreateSpecialPrice{
			Name:      rest[0],
			Email:     rest[1],
			ProductID: rest[2],
			Price:     price,
		})
		if err != nil {
			return err
		}
		return reportStatus(st)

	case "add":
		if len(rest) != 3 {
			return errors.New("usage: add <id> <productID> <price>")
		}
		price, err := decimal.NewFromString(rest[2])
		if err != nil {
			return errors.Wrap(err, "parse price")
		}
		st, err := prices.AddProduct(ctx, pricing.UpdateSpecialPrice{
			ID:        rest[0],
			ProductID: rest[1],
			Price:     price,
		})
		if err != nil {
			return err
		}
		return reportStatus(st)

	case "update":
		if len(rest) != 3 {
			return errors.New("usage: update <id> <productID> <price>")
		}
		price, err := decimal.NewFromString(rest[2])
		if err != nil {
			return errors.Wrap(err, "parse price")
		}
		st, err := prices.UpdateProduct(ctx, rest[0], rest[1], price)
		if err != nil {
			return err
		}
		return reportStatus(st)

	case "delete":
		if len(rest) != 1 {
			return errors.New("usage: delete <id>")
		}
		if err := prices.Delete(ctx, rest[0]); err != nil {
			return err
		}
		slog.Info("special price deleted", slog.String("id", rest[0]))
		return nil

	case "delete-product":
		if len(rest) != 2 {
			return errors.New("usage: delete-product <id> <productID>")
		}
		st, err := prices.DeleteProduct(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		return reportStatus(st)

	default:
		return errors.Errorf("unknown command %q", cmd)
	}
}

func reportStatus(st *pricing.Status) error {
	if !st.Success {
		return errors.Errorf("backend rejected the request: %s", st.Message)
	}
	slog.Info("ok", slog.String("message", st.Message))
	if st.Price != nil {
		return printJSON(st.Price)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
