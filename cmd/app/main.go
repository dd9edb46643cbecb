package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"booknstay/internal/adapters/backend"
	"booknstay/internal/adapters/observability"
	"booknstay/internal/client"
	"booknstay/internal/shared"
)

// A terminal shell over the application core. The rendering here is
// throwaway; everything of substance lives in internal/client.
func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	sdk := backend.New(cfg.APIBaseURL, 5)
	gw := client.NewGateway(sdk)
	reader := client.NewCatalogReader(sdk, log.Logger)
	store := client.NewBookingStore(sdk, log.Logger)
	ctrl := client.NewController(gw, reader, store, client.NotifierFunc(func(m string) {
		fmt.Println(">>", m)
	}), log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.Run(ctx)

	fmt.Println("booknstay - commands: login <email> <pw> | signup <name> <email> <pw> |")
	fmt.Println("  hotels | search <destination> | select <n> | stay <in> <out> <guests> |")
	fmt.Println("  pay <Card|Cash> | book | history | logout | quit")

	in := bufio.NewScanner(os.Stdin)
	for fmt.Print("> "); in.Scan(); fmt.Print("> ") {
		args := strings.Fields(in.Text())
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "login":
			if len(args) != 3 {
				fmt.Println("usage: login <email> <pw>")
				continue
			}
			if err := ctrl.SignIn(ctx, args[1], args[2]); err == nil {
				fmt.Println("signed in")
			}
		case "signup":
			if len(args) != 4 {
				fmt.Println("usage: signup <name> <email> <pw>")
				continue
			}
			_ = ctrl.SignUp(ctx, args[1], args[2], args[3])
		case "hotels":
			renderHotels(ctrl.State())
		case "search":
			dest := strings.Join(args[1:], " ")
			ctrl.Handle(client.DestinationChanged{Value: dest})
			renderHotels(ctrl.Handle(client.SearchSubmitted{}))
		case "select":
			st := ctrl.State()
			visible := st.Visible()
			var n int
			if _, err := fmt.Sscanf(strings.Join(args[1:], " "), "%d", &n); err != nil || n < 1 || n > len(visible) {
				fmt.Println("usage: select <n> (from the hotels list)")
				continue
			}
			st = ctrl.Handle(client.HotelSelected{Hotel: visible[n-1]})
			fmt.Printf("selected %s - fill in stay details, then `book`\n", st.Selected.Name)
		case "stay":
			if len(args) != 4 {
				fmt.Println("usage: stay <check-in> <check-out> <guests>")
				continue
			}
			ctrl.Handle(client.StayChanged{CheckIn: args[1], CheckOut: args[2], Guests: args[3]})
		case "pay":
			if len(args) != 2 {
				fmt.Println("usage: pay <Card|Cash>")
				continue
			}
			ctrl.Handle(client.PaymentChosen{Method: args[1]})
		case "book":
			_ = ctrl.ConfirmBooking(ctx)
		case "history":
			for _, b := range ctrl.State().Bookings {
				fmt.Printf("  %s  %s (%s)  %s → %s  %s guests  %s  %s\n",
					b.CreatedAt.Format("2006-01-02"), b.HotelName, b.City,
					b.CheckIn, b.CheckOut, b.Guests, b.Price, b.PaymentMethod)
			}
		case "logout":
			ctrl.Logout(ctx)
			fmt.Println("signed out")
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command:", args[0])
		}
	}
}

func renderHotels(st client.State) {
	if st.Loading {
		fmt.Println("loading...")
		return
	}
	for i, h := range st.Visible() {
		fmt.Printf("  %d. %s - %s (%s) %s\n", i+1, h.Name, h.Location, h.City, h.Price)
	}
}
