package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/brewandco/client/api"
	"github.com/shashiranjanraj/brewandco/client/cart"
	"github.com/shashiranjanraj/brewandco/client/shop"
	"github.com/shashiranjanraj/brewandco/client/store"
	"github.com/shashiranjanraj/brewandco/config"
)

// withShop opens the persisted client state, runs fn and closes it again.
func withShop(fn func(cmd *cobra.Command, s *shop.Shop, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		st, err := store.OpenFile(config.ClientStateFile(), config.ClientStateKey())
		if err != nil {
			return err
		}
		s, err := shop.Open(st, config.APIBaseURL(), config.TaxRate())
		if err != nil {
			_ = st.Close()
			return err
		}
		defer s.Close()
		return fn(cmd, s, args)
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}
	return uint(id), nil
}

func table() *tabwriter.Writer { return tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0) }

var (
	registerFlags api.RegisterRequest
	adminFlag     bool
	menuCategory  string
	menuPopular   bool
	quantityFlag  int
	notesFlag     string
)

func shopCommands() []*cobra.Command {
	register := &cobra.Command{
		Use:   "shop:register [username] [email] [password]",
		Short: "Create a customer account and sign in",
		Args:  cobra.ExactArgs(3),
		RunE: withShop(func(cmd *cobra.Command, s *shop.Shop, args []string) error {
			in := registerFlags
			in.Username, in.Email, in.Password = args[0], args[1], args[2]
			user, err := s.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Welcome, %s! You are signed in.\n", user.Username)
			return nil
		}),
	}
	register.Flags().StringVar(&registerFlags.FullName, "name", "", "Full name")
	register.Flags().StringVar(&registerFlags.Phone, "phone", "", "Phone number")
	register.Flags().StringVar(&registerFlags.Address, "address", "", "Delivery address")

	login := &cobra.Command{
		Use:   "shop:login [username] [password]",
		Short: "Sign in as a customer, or as an admin with --admin",
		Args:  cobra.ExactArgs(2),
		RunE: withShop(func(cmd *cobra.Command, s *shop.Shop, args []string) error {
			if adminFlag {
				admin, err := s.AdminLogin(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Printf("Signed in as admin %s (%s).\n", admin.Username, admin.Role)
				return nil
			}
			user, err := s.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Signed in as %s.\n", user.Username)
			return nil
		}),
	}
	login.Flags().BoolVar(&adminFlag, "admin", false, "Sign in to the back office")

	logout := &cobra.Command{
		Use:   "shop:logout",
		Short: "Forget the signed-in identity",
		RunE: withShop(func(cmd *cobra.Command, s *shop.Shop, args []string) error {
			if err := s.Logout(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		}),
	}

	me := &cobra.Command{
		Use:   "shop:me",
		Short: "Show the signed-in customer's profile",
		RunE: withShop(func(cmd *cobra.Command, s *shop.Shop, args []string) error {
			user, err := s.FetchCurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			w := table()
			fmt.Fprintf(w, "Username\t%s\n", user.Username)
			fmt.Fprintf(w, "Email\t%s\n", user.Email)
			fmt.Fprintf(w, "Name\t%s\n", user.FullName)
			fmt.Fprintf(w, "Phone\t%s\n", user.Phone)
			fmt.Fprintf(w, "Address\t%s\n", user.Address)
			return w.Flush()
		}),
	}

	menu := &cobra.Command{
		Use:   "shop:menu",
		Short: "List the menu",
		RunE: withShop(func(cmd *cobra.Command, s *shop.Shop, args []string) error {
			var (
				products []api.Product
				err      error
			)
			switch {
			case menuPopular:
				products, err = s.API.Popular(cmd.Context())
			case menuCategory != "":
				products, err = s.API.ByCategory(cmd.Context(), menuCategory)
			default:
				products, err = s.API.Products(cmd.Context(), false)
			}
			if err != nil {
				return err
			}
			w := table()
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tRATING")
			for _, p := range products {
				if !p.IsAvailable {
					continue
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.1f\n", p.ID, p.Name, p.Category, p.Price, p.Rating)
			}
			return w.Flush()
		}),
	}
	menu.Flags().StringVar(&menuCategory, "category", "", "Only this category")
	menu.Flags().BoolVar(&menuPopular, "popular", false, "Only popular items")

	showCart := &cobra.Command{
		Use:   "shop:cart",
		Short: "Show the cart and its totals",
		RunE: withShop(func(cmd *cobra.Command, s *shop.Shop, args []string) error {
			printCart(s.Cart)
			return nil
		}),
	}

	add := &cobra.Command{
		Use:   "shop:add [product-id]",
		Short: "Add a menu item to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: withShop(func(cmd *cobra.Command, s *shop.Shop, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := s.API.Product(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !p.IsAvailable {
				return fmt.Errorf("%s is not available right now", p.Name)
			}
			if err := s.Cart.Add(cart.Item{
				ID: p.ID, Name: p.Name, Price: p.Price, Quantity: quantityFlag,
				Category: p.Category, Image: p.Image,
			}); err != nil {
				return err
			}
			printCart(s.Cart)
			return nil
		}),
	}
	add.Flags().IntVarP(&quantityFlag, "quantity", "q", 1, "How many to add")

	remove := &cobra.Command{
		Use:   "shop:remove [product-id]",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: withShop(func(cmd *cobra.Command, s *shop.Shop, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := s.Cart.Remove(id); err != nil {
				return err
			}
			printCart(s.Cart)
			return nil
		}),
	}

	checkout := &cobra.Command{
		Use:   "shop:checkout",
		Short: "Place an order for the cart",
		RunE: withShop(func(cmd *cobra.Command, s *shop.Shop, args []string) error {
			summary := s.Cart.Summary()
			order, err := s.Checkout(cmd.Context(), notesFlag)
			if err != nil {
				return err
			}
			fmt.Printf("✅ Order #%d placed (%s, total with tax %s).\n", order.OrderID, order.Status, summary.Total.StringFixed(2))
			return nil
		}),
	}
	checkout.Flags().StringVar(&notesFlag, "notes", "", "Notes for the barista")

	orders := &cobra.Command{
		Use:   "shop:orders",
		Short: "List your orders, newest first",
		RunE: withShop(func(cmd *cobra.Command, s *shop.Shop, args []string) error {
			list, err := s.Orders(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("No orders yet.")
				return nil
			}
			w := table()
			fmt.Fprintln(w, "ORDER\tPLACED\tSTATUS\tITEMS\tTOTAL")
			for _, o := range list {
				fmt.Fprintf(w, "#%d\t%s\t%s\t%d\t%.2f\n", o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), o.Status, len(o.Items), o.TotalAmount)
			}
			return w.Flush()
		}),
	}

	return []*cobra.Command{register, login, logout, me, menu, showCart, add, remove, checkout, orders}
}

func printCart(c *cart.Cart) {
	if c.IsEmpty() {
		fmt.Println("Your cart is empty.")
		return
	}
	w := table()
	fmt.Fprintln(w, "ID\tITEM\tQTY\tPRICE")
	for _, i := range c.Items() {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\n", i.ID, i.Name, i.Quantity, i.Price)
	}
	sum := c.Summary()
	fmt.Fprintf(w, "\t\tSubtotal\t%s\n", sum.Subtotal.StringFixed(2))
	fmt.Fprintf(w, "\t\tTax\t%s\n", sum.Tax.StringFixed(2))
	fmt.Fprintf(w, "\t\tTotal\t%s\n", sum.Total.StringFixed(2))
	_ = w.Flush()
}
