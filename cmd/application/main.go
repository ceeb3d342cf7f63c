package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"campusmarket/config"
	"campusmarket/internal/api"
	"campusmarket/internal/auth"
	"campusmarket/internal/catalog"
	"campusmarket/internal/core/models"
	"campusmarket/internal/profile"
	"campusmarket/internal/session"
	"campusmarket/pkg/apperror"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config (env-only when empty)")
	flag.Parse()

	log.Printf("\nStarted campus marketplace client\n")

	var cfg *config.AppConfig
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	} else {
		cfg = config.GetConfig()
	}

	tokens := auth.NewTokenStore(cfg.Auth.TokenPath)
	base := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), cfg.API.RatePerSecond, tokens, os.Stdout, "[api]")
	sess := session.New(session.NewClients(base), tokens, os.Stdout)

	ctx := context.Background()
	reader := bufio.NewScanner(os.Stdin)

	if _, err := tokens.Load(); err != nil {
		if !apperror.IsAuth(err) {
			log.Fatalf("Failed to read stored credential: %v", err)
		}
		if err := login(ctx, sess, reader); err != nil {
			log.Fatalf("Login failed: %v", err)
		}
	}

	if err := sess.Bootstrap(ctx); err != nil {
		log.Printf("Bootstrap failed: %v", err)
	}

	runSections(ctx, sess, reader)
}

func login(ctx context.Context, sess *session.Session, reader *bufio.Scanner) error {
	email := prompt(reader, "Email: ")
	password := prompt(reader, "Password: ")
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}
	return sess.Login(ctx, email, password)
}

func runSections(ctx context.Context, sess *session.Session, reader *bufio.Scanner) {
	for {
		showNotice(sess)
		section := prompt(reader, "\n[buy / sell / cart / status / profile / quit] > ")
		switch section {
		case "buy":
			buySection(ctx, sess, reader)
		case "sell":
			sellSection(ctx, sess, reader)
		case "cart":
			cartSection(ctx, sess, reader)
		case "status":
			statusSection(sess)
		case "profile":
			profileSection(ctx, sess, reader)
		case "quit", "q":
			return
		}
	}
}

func buySection(ctx context.Context, sess *session.Session, reader *bufio.Scanner) {
	if sess.Catalog.State() == catalog.StateFailed {
		fmt.Printf("Error: %s\n", sess.Catalog.ErrorMessage())
		return
	}

	term := prompt(reader, "Search (empty for all): ")
	grouped := catalog.GroupByCategory(sess.Catalog.Filter(term))
	if len(grouped.Order) == 0 {
		fmt.Println("No products found matching your search.")
		return
	}

	flat := grouped.Flatten()
	i := 0
	for _, category := range grouped.Order {
		fmt.Printf("\n-- %s --\n", category)
		for _, p := range grouped.Groups[category] {
			fmt.Printf("%2d. %s - ₹%.2f  (%s, contact %s)\n", i+1, p.Name, p.Price, p.Description, p.ContactNumber)
			i++
		}
	}

	action := prompt(reader, "add <n> to cart, buy <n>, or enter to go back: ")
	verb, index, ok := parseAction(action, len(flat))
	if !ok {
		return
	}
	product := flat[index]

	switch verb {
	case "add":
		sess.Cart.Add(product)
		fmt.Printf("Added %s to cart\n", product.Name)
	case "buy":
		sess.Purchase.Select(product)
		confirmPurchase(ctx, sess, reader)
	}
}

func confirmPurchase(ctx context.Context, sess *session.Session, reader *bufio.Scanner) {
	selected := sess.Purchase.Selected()
	if selected == nil {
		return
	}
	answer := prompt(reader, fmt.Sprintf("Are you sure you want to buy %s for ₹%.2f? [y/n] ", selected.Name, selected.Price))
	if answer != "y" && answer != "yes" {
		sess.Purchase.Cancel()
		return
	}
	if err := sess.Purchase.Confirm(ctx); err != nil {
		fmt.Printf("Error confirming purchase: %v\n", err)
	}
}

func sellSection(ctx context.Context, sess *session.Session, reader *bufio.Scanner) {
	draft := models.SellDraft{
		ProductName:   prompt(reader, "Product name: "),
		Category:      prompt(reader, "Category: "),
		Description:   prompt(reader, "Description: "),
		ContactNumber: prompt(reader, "Contact number: "),
	}
	draft.Price, _ = strconv.ParseFloat(prompt(reader, "Price: "), 64)

	image := prompt(reader, "Image (URL or local file path): ")
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		draft.ImageSource = models.ImageURL
		draft.ImageURL = image
	} else if image != "" {
		draft.ImageSource = models.ImageFile
		draft.ImagePath = image
	}

	sellerID, err := sess.Tokens.SellerID()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if _, err := sess.Listings.Submit(ctx, draft, sellerID); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func cartSection(ctx context.Context, sess *session.Session, reader *bufio.Scanner) {
	items := sess.Cart.Items()
	if len(items) == 0 {
		fmt.Println("Your cart is empty.")
		return
	}
	for i, item := range items {
		fmt.Printf("%2d. %s - ₹%.2f\n", i+1, item.Name, item.Price)
	}

	action := prompt(reader, "remove <n>, buy <n>, clear, or enter to go back: ")
	if action == "clear" {
		sess.Cart.Clear()
		return
	}
	verb, index, ok := parseAction(action, len(items))
	if !ok {
		return
	}
	switch verb {
	case "remove":
		sess.Cart.RemoveAt(index)
	case "buy":
		if sess.BuyFromCart(index) {
			confirmPurchase(ctx, sess, reader)
		}
	}
}

func statusSection(sess *session.Session) {
	listings := sess.Listings.List()
	if len(listings) == 0 {
		fmt.Println("No listings yet.")
		return
	}
	for _, p := range listings {
		fmt.Printf("%s - %s\n", p.Name, p.Status)
	}
}

func profileSection(ctx context.Context, sess *session.Session, reader *bufio.Scanner) {
	record, err := sess.Profile.Load(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Name: %s\nEmail: %s\nPhone: %s\nRole: %s\nDepartment: %s\n",
		record.Name, record.Email, record.Phone, profile.DisplayRole(record.Role), record.Department)
	if record.Role == models.RoleStudent {
		fmt.Printf("Year: %s\n", record.Year)
	}

	if prompt(reader, "Edit profile? [y/n] ") != "y" {
		return
	}

	staged := record
	if v := prompt(reader, fmt.Sprintf("Name [%s]: ", record.Name)); v != "" {
		staged.Name = v
	}
	if v := prompt(reader, fmt.Sprintf("Phone [%s]: ", record.Phone)); v != "" {
		staged.Phone = v
	}
	if v := prompt(reader, fmt.Sprintf("Role [%s]: ", record.Role)); v != "" {
		staged.Role = models.Role(v)
	}
	if v := prompt(reader, fmt.Sprintf("Department [%s]: ", record.Department)); v != "" {
		staged.Department = v
	}
	if staged.Role == models.RoleStudent {
		if v := prompt(reader, fmt.Sprintf("Year [%s]: ", record.Year)); v != "" {
			staged.Year = v
		}
	}
	sess.Profile.Stage(staged)

	if _, err := sess.Profile.Save(ctx, "", nil); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func showNotice(sess *session.Session) {
	if n := sess.Notices.Current(); n != nil {
		fmt.Printf("** %s **\n", n.Text)
	}
}

func parseAction(input string, limit int) (string, int, bool) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return "", 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 || n > limit {
		return "", 0, false
	}
	return fields[0], n - 1, true
}

func prompt(reader *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !reader.Scan() {
		return ""
	}
	return strings.TrimSpace(reader.Text())
}
