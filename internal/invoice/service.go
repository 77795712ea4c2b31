package invoice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"indiadoors-be/internal/logger"
	"indiadoors-be/internal/order"
	"indiadoors-be/internal/pdf"
	"indiadoors-be/internal/user"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	// Generate returns the invoice for the order behind a gateway order id,
	// allocating a number if none exists yet. Calling it again for the same
	// order returns the same row. The PDF artifact is materialized after the
	// row is committed; a render failure is logged and left for a later call
	// to backfill, it never discards the allocated number.
	Generate(ctx context.Context, gatewayOrderID string) (*Invoice, error)
}

type service struct {
	repo      Repository
	orderRepo order.Repository
	userRepo  user.Repository
	renderer  pdf.Renderer
	dir       string
	now       func() time.Time
}

func NewService(repo Repository, orderRepo order.Repository, userRepo user.Repository, renderer pdf.Renderer, dir string) Service {
	return &service{
		repo:      repo,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		renderer:  renderer,
		dir:       dir,
		now:       time.Now,
	}
}

func (s *service) Generate(ctx context.Context, gatewayOrderID string) (*Invoice, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GenerateInvoice"),
		zap.String("gateway_order_id", gatewayOrderID),
	)

	if err := s.repo.EnsureSequenceTable(ctx); err != nil {
		return nil, err
	}

	inv, created, err := s.repo.AllocateTx(ctx, gatewayOrderID, s.now())
	if err != nil {
		return nil, err
	}
	if !created {
		log.Info("invoice already exists", zap.String("invoice_no", inv.InvoiceNo))
	}

	if err := s.ensureArtifact(ctx, inv, gatewayOrderID); err != nil {
		log.Error("failed to materialize invoice pdf, will retry on next call",
			zap.String("invoice_no", inv.InvoiceNo),
			zap.Error(err),
		)
	}
	return inv, nil
}

// ensureArtifact writes the PDF file for an invoice if it is not already on
// disk, so earlier render failures heal on the next request for the order.
func (s *service) ensureArtifact(ctx context.Context, inv *Invoice, gatewayOrderID string) error {
	path := filepath.Join(s.dir, ArtifactFileName(inv.InvoiceNo))
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	o, err := s.orderRepo.GetByID(ctx, inv.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order %d: %w", inv.OrderID, err)
	}
	items, err := s.orderRepo.GetItems(ctx, inv.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	profile, err := s.userRepo.GetProfile(ctx, o.UserID)
	if err != nil {
		return fmt.Errorf("failed to load customer profile: %w", err)
	}
	paymentID, err := s.repo.GetGatewayPaymentID(ctx, gatewayOrderID)
	if err != nil {
		return err
	}

	html, err := renderDocument(buildDocumentData(inv, o, items, profile, paymentID))
	if err != nil {
		return fmt.Errorf("failed to render invoice html: %w", err)
	}

	pdfBytes, err := s.renderer.Render(ctx, html)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create invoice dir: %w", err)
	}
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write invoice pdf: %w", err)
	}

	logger.FromCtx(ctx).Info("invoice pdf written",
		zap.String("invoice_no", inv.InvoiceNo),
		zap.String("path", path),
	)
	return nil
}

func buildDocumentData(inv *Invoice, o *order.Order, items []order.OrderedItem, profile *user.Profile, paymentID string) documentData {
	data := documentData{
		InvoiceNo:       inv.InvoiceNo,
		InvoiceDate:     inv.InvoiceDate.Format("02 Jan 2006"),
		OrderID:         o.ID,
		OrderDate:       o.OrderDate.Format("02 Jan 2006"),
		PaymentID:       paymentID,
		PaymentMethod:   o.PaymentMethod,
		CustomerName:    profile.Name,
		CustomerPhone:   profile.Phone,
		CustomerEmail:   profile.Email,
		ShippingFee:     o.ShippingFee.StringFixed(2),
		Total:           o.TotalAmount.StringFixed(2),
		BillingAddress:  derefOr(o.BillingAddressText, "-"),
		ShippingAddress: derefOr(o.ShippingAddressText, "-"),
	}

	subtotal := decimal.Zero
	for _, it := range items {
		lineTotal := it.LineTotal()
		subtotal = subtotal.Add(lineTotal)
		data.Items = append(data.Items, documentItem{
			Name:      it.ItemName,
			Variant:   it.VariantText(),
			Quantity:  maxQty(it.Quantity),
			UnitPrice: it.ItemAmount.StringFixed(2),
			LineTotal: lineTotal.StringFixed(2),
		})
	}
	data.Subtotal = subtotal.StringFixed(2)
	return data
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func maxQty(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}
