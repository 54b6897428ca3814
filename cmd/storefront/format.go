package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront/internal/domain"
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printProducts(w io.Writer, products []domain.Product) {
	tw := table(w)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tCATEGORY\tACTIVE")
	for _, p := range products {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%t\n", p.ID, p.Name, money(p.Price), p.Stock, p.Category, p.IsActive)
	}
	_ = tw.Flush()
}

func printOrders(w io.Writer, orders []domain.Order) {
	tw := table(w)
	_, _ = fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tCUSTOMER\tTOTAL")
	for _, o := range orders {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", o.ID, o.CreatedAt.Local().Format(time.DateOnly), o.Status.Text(), o.CustomerName, money(o.Total))
	}
	_ = tw.Flush()
}

func printOrder(w io.Writer, o *domain.Order) {
	_, _ = fmt.Fprintf(w, "Order #%d  [%s] %s\n", o.ID, o.Status.Color(), o.Status.Text())
	_, _ = fmt.Fprintf(w, "%s\n\n", o.Status.Description())
	_, _ = fmt.Fprintf(w, "Customer: %s <%s> %s\n", o.CustomerName, o.CustomerEmail, o.CustomerPhone)
	if o.CustomerAddress != "" {
		_, _ = fmt.Fprintf(w, "Address:  %s\n", o.CustomerAddress)
	}
	_, _ = fmt.Fprintf(w, "Placed:   %s\n\n", o.CreatedAt.Local().Format(time.DateTime))

	tw := table(w)
	_, _ = fmt.Fprintln(tw, "PRODUCT\tQTY\tUNIT\tSUBTOTAL")
	for _, it := range o.Items {
		name := it.ProductName
		if name == "" {
			name = fmt.Sprintf("#%d", it.ProductID)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, it.Quantity, money(it.UnitPrice), money(it.Subtotal))
	}
	_, _ = fmt.Fprintf(tw, "\t\tTOTAL\t%s\n", money(o.Total))
	_ = tw.Flush()

	if o.PaymentReceiptUploadedAt != nil {
		_, _ = fmt.Fprintf(w, "\nReceipt:  %s (uploaded %s)\n", o.PaymentReceiptURL, o.PaymentReceiptUploadedAt.Local().Format(time.DateTime))
	}
	if o.TrackingNumber != "" {
		_, _ = fmt.Fprintf(w, "Tracking: %s %s\n", o.ShippingProvider, o.TrackingNumber)
	}
	if o.AdminNotes != "" {
		_, _ = fmt.Fprintf(w, "Notes:    %s\n", o.AdminNotes)
	}
	if o.Status.CanUploadReceipt() {
		_, _ = fmt.Fprintf(w, "\nUpload your transfer receipt with: storefront receipt %d <file>\n", o.ID)
	}
}
