package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"restaurant-client/internal/cart"
	"restaurant-client/internal/models"
)

// money formats currency amounts at presentation time: two decimals,
// grouping separators. Full precision is kept everywhere else.
var money = message.NewPrinter(language.English)

func formatMoney(amount float64) string {
	return money.Sprintf("$%.2f", amount)
}

func renderRestaurants(w io.Writer, restaurants []models.Restaurant) {
	if len(restaurants) == 0 {
		fmt.Fprintln(w, "No restaurants available.")
		return
	}
	for _, r := range restaurants {
		fmt.Fprintf(w, "%s  %s\n", r.ID, r.Name)
		if r.Cuisine != "" || r.Location != "" {
			fmt.Fprintf(w, "    %s\n", strings.TrimSpace(r.Cuisine+"  "+r.Location))
		}
		if r.Hours != "" {
			fmt.Fprintf(w, "    Open: %s\n", r.Hours)
		}
		if r.Description != "" {
			fmt.Fprintf(w, "    %s\n", r.Description)
		}
	}
}

func renderMenu(w io.Writer, restaurantName string, items []models.MenuItem) {
	fmt.Fprintf(w, "%s Menu\n\n", restaurantName)
	for _, item := range items {
		fmt.Fprintf(w, "%s  %s  %s\n", item.ID, item.Name, formatMoney(item.Price))
		if item.Description != "" {
			fmt.Fprintf(w, "    %s\n", item.Description)
		}
		if item.Category != "" {
			fmt.Fprintf(w, "    Category: %s\n", item.Category)
		}
		if item.Calories > 0 {
			fmt.Fprintf(w, "    Calories: %d\n", item.Calories)
		}
		if len(item.Ingredients) > 0 {
			fmt.Fprintf(w, "    Ingredients: %s\n", strings.Join(item.Ingredients, ", "))
		}
		if len(item.Tags) > 0 {
			fmt.Fprintf(w, "    Tags: %s\n", strings.Join(item.Tags, ", "))
		}
	}
}

// renderCart prints the cart receipt. The format is pinned by a golden
// test; change it there too.
func renderCart(w io.Writer, lines []cart.Line, total float64) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	for _, l := range lines {
		fmt.Fprintf(w, "%s  x%d  %s\n", l.Item.Name, l.Quantity, formatMoney(l.Total()))
		if l.Note != "" {
			fmt.Fprintf(w, "    note: %s\n", l.Note)
		}
		for _, review := range l.Reviews {
			fmt.Fprintf(w, "    review: %s\n", review)
		}
	}
	fmt.Fprintf(w, "Total: %s\n", formatMoney(total))
}

func renderPayments(w io.Writer, payments []models.Payment) {
	if len(payments) == 0 {
		fmt.Fprintln(w, "No payment history available.")
		return
	}
	for _, p := range payments {
		when := time.Unix(p.Created, 0).UTC().Format("2006-01-02 15:04")
		fmt.Fprintf(w, "%s  %s  %s\n", when, formatMoney(float64(p.Amount)/100), p.Status)
	}
}

func renderProfile(w io.Writer, profile *models.UserProfile, role string) {
	fmt.Fprintf(w, "Name:  %s\n", profile.Name)
	fmt.Fprintf(w, "Email: %s\n", profile.Email)
	if profile.ProfilePicture != "" {
		fmt.Fprintf(w, "Picture: %s\n", profile.ProfilePicture)
	}
	if role != "" {
		fmt.Fprintf(w, "Role:  %s\n", role)
	}
}
