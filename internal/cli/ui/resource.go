package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/fatih/color"

	"github.com/shoebot/storefront/internal/cart"
	"github.com/shoebot/storefront/internal/catalog"
	"github.com/shoebot/storefront/internal/cli/types"
)

var (
	// Tree node styles
	productStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)  // Cyan
	lineStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))             // Blue
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // Gray
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))            // Yellow
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true) // Pink

	// Summary box style
	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)
)

// RenderProductList renders the catalog as an aligned table
func RenderProductList(products []catalog.Product) string {
	if len(products) == 0 {
		return keyStyle.Render("No products found")
	}

	maxNameLen := 0
	maxBrandLen := 0
	for _, p := range products {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
		if len(p.Brand) > maxBrandLen {
			maxBrandLen = len(p.Brand)
		}
	}

	var sb strings.Builder
	for _, p := range products {
		sb.WriteString(fmt.Sprintf("  %s  %-*s  %-*s  %s\n",
			keyStyle.Render(p.ID),
			maxNameLen, productStyle.Render(fmt.Sprintf("%-*s", maxNameLen, p.Name)),
			maxBrandLen, p.Brand,
			highlightStyle.Render(fmt.Sprintf("$%.2f", p.Price)),
		))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderProductDetail renders one product with its variant options as a tree
func RenderProductDetail(p catalog.Product) string {
	root := tree.New().Root(fmt.Sprintf("%s %s",
		productStyle.Render(p.Name),
		keyStyle.Render("("+p.ID+")"),
	))

	root.Child(formatKeyValue("Brand:", p.Brand))
	root.Child(formatKeyValue("Category:", p.Category))
	root.Child(formatKeyValue("Price:", highlightStyle.Render(fmt.Sprintf("$%.2f", p.Price))))
	if p.Description != "" {
		root.Child(formatKeyValue("About:", p.Description))
	}
	if len(p.Sizes) > 0 {
		root.Child(formatKeyValue("Sizes:", valueStyle.Render(strings.Join(p.Sizes, ", "))))
	}
	if len(p.Colors) > 0 {
		root.Child(formatKeyValue("Colors:", valueStyle.Render(strings.Join(p.Colors, ", "))))
	}

	return root.String()
}

// RenderCart renders the cart snapshot as a tree, one node per line item
func RenderCart(snapshot cart.Snapshot) string {
	if len(snapshot.Items) == 0 {
		return keyStyle.Render("Your cart is empty")
	}

	root := tree.New().Root(productStyle.Render("Cart"))
	for _, item := range snapshot.Items {
		lineNode := tree.New().Root(fmt.Sprintf("%s %s",
			lineStyle.Render(item.Product.Name),
			keyStyle.Render("("+item.ID+")"),
		))
		lineNode.Child(formatKeyValue("Variant:", fmt.Sprintf("%s / size %s",
			valueStyle.Render(item.Color), valueStyle.Render(item.Size))))
		lineNode.Child(formatKeyValue("Quantity:", fmt.Sprintf("%d × $%.2f = %s",
			item.Quantity, item.Product.Price,
			highlightStyle.Render(fmt.Sprintf("$%.2f", item.Subtotal())))))
		root.Child(lineNode)
	}

	return root.String()
}

// RenderCartSummary renders the badge count and total line under the cart tree
func RenderCartSummary(snapshot cart.Snapshot) string {
	itemLabel := "items"
	count := snapshot.ItemCount()
	if count == 1 {
		itemLabel = "item"
	}

	summary := fmt.Sprintf("Total: %s %s, %s",
		highlightStyle.Render(fmt.Sprintf("%d", count)),
		keyStyle.Render(itemLabel),
		highlightStyle.Render(fmt.Sprintf("$%.2f", snapshot.Total)),
	)

	return summaryStyle.Render(summary)
}

// RenderOrder renders an order confirmation
func RenderOrder(order types.Order) string {
	root := tree.New().Root(fmt.Sprintf("%s %s",
		productStyle.Render("Order"),
		keyStyle.Render("("+order.ID+")"),
	))
	root.Child(formatKeyValue("Status:", getColoredStatus(order.Status)))
	root.Child(formatKeyValue("Total:", highlightStyle.Render(fmt.Sprintf("$%.2f", order.Total))))
	if order.CreatedAt != "" {
		root.Child(formatKeyValue("Placed:", order.CreatedAt))
	}
	return root.String()
}

// formatKeyValue formats a key-value pair
func formatKeyValue(key, value string) string {
	return fmt.Sprintf("%s %s",
		keyStyle.Render(key),
		value,
	)
}

// getColoredStatus returns a colored order status string
func getColoredStatus(status string) string {
	switch status {
	case "confirmed", "shipped", "delivered":
		return color.GreenString(status)
	case "pending", "processing":
		return color.YellowString(status)
	case "cancelled", "failed":
		return color.RedString(status)
	default:
		return status
	}
}
