package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/billing"
	"github.com/example/retailshop/pkg/cart"
	"github.com/shopspring/decimal"
)

type shopClient interface {
	ViewCart(ctx context.Context) (*billing.CartView, error)
	AddToCart(ctx context.Context, product string) (bool, error)
	RemoveFromCart(ctx context.Context, product string) error
	Summarize(ctx context.Context) (*billing.OrderSummary, error)
	Checkout(ctx context.Context, orderID string) (*billing.Bill, error)
}

const help = `commands:
  add <product>      add a product to the cart
  remove <product>   remove a product from the cart
  cart               show the cart
  order              summarize the cart into an order
  checkout           confirm the last summarized order
  quit               leave
`

// run reads commands from in until quit or EOF. Service errors are printed
// and do not end the session.
func run(ctx context.Context, in io.Reader, out io.Writer, client shopClient) error {
	var pending *billing.OrderSummary
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, help)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		var err error
		switch strings.ToLower(cmd) {
		case "":
		case "add":
			var added bool
			if added, err = client.AddToCart(ctx, arg); err == nil {
				if added {
					fmt.Fprintf(out, "%s added to cart\n", arg)
				} else {
					fmt.Fprintf(out, "%s is already in the cart\n", arg)
				}
			}
		case "remove":
			if err = client.RemoveFromCart(ctx, arg); err == nil {
				fmt.Fprintf(out, "%s removed from cart\n", arg)
			}
		case "cart":
			var view *billing.CartView
			if view, err = client.ViewCart(ctx); err == nil {
				if len(view.Lines) == 0 {
					fmt.Fprintln(out, "your cart is empty")
				} else {
					printLines(out, view.Lines)
					fmt.Fprintf(out, "Total: %s\n", money(view.Total))
				}
			}
		case "order":
			var summary *billing.OrderSummary
			if summary, err = client.Summarize(ctx); err == nil {
				pending = summary
				printLines(out, summary.Lines)
				printFigures(out, summary.CartValue, summary.Discount, summary.SubTotal)
				fmt.Fprintf(out, "Order %s is ready, type checkout to confirm\n", summary.OrderID)
			}
		case "checkout":
			if pending == nil {
				fmt.Fprintln(out, "summarize an order first")
				continue
			}
			var bill *billing.Bill
			if bill, err = client.Checkout(ctx, pending.OrderID); err == nil {
				pending = nil
				fmt.Fprintf(out, "Bill %s\n", bill.BillID)
				printLines(out, bill.Lines)
				printFigures(out, bill.CartValue, bill.Discount, bill.SubTotal)
			}
		case "help":
			fmt.Fprint(out, help)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q\n", cmd)
		}
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", describe(err))
		}
	}
}

func describe(err error) string {
	if apperr.KindOf(err) == apperr.KindUnknown {
		return err.Error()
	}
	return apperr.Message(err)
}

func printLines(out io.Writer, lines []cart.Line) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tProduct\tPrice")
	for i, l := range lines {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, l.Name, money(l.Price))
	}
	w.Flush()
}

func printFigures(out io.Writer, value, discount, subTotal decimal.Decimal) {
	fmt.Fprintf(out, "Cart value: %s\nDiscount:   %s\nSub total:  %s\n", money(value), money(discount), money(subTotal))
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
