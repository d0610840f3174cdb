package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

// Profile wraps /api/profile and the per-role profile documents.
type Profile struct {
	c *Client
}

func (c *Client) Profile() *Profile {
	return &Profile{c: c}
}

func (p *Profile) Get(ctx context.Context) (*domain.Profile, error) {
	var out domain.Profile
	if _, err := p.c.do(ctx, request{method: http.MethodGet, path: "/api/profile"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Profile) Buyer(ctx context.Context) (*domain.BuyerProfile, error) {
	var out domain.BuyerProfile
	if _, err := p.c.do(ctx, request{method: http.MethodGet, path: "/api/profile/buyer"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Profile) UpsertBuyer(ctx context.Context, in domain.BuyerProfile) error {
	_, err := p.c.do(ctx, request{method: http.MethodPut, path: "/api/profile/buyer", json: in}, nil)
	return err
}

func (p *Profile) Seller(ctx context.Context) (*domain.SellerProfile, error) {
	var out domain.SellerProfile
	if _, err := p.c.do(ctx, request{method: http.MethodGet, path: "/api/profile/seller"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Profile) UpsertSeller(ctx context.Context, in domain.SellerProfile) error {
	_, err := p.c.do(ctx, request{method: http.MethodPut, path: "/api/profile/seller", json: in}, nil)
	return err
}

// Reports submits user reports against cars and sellers.
type Reports struct {
	c *Client
}

func (c *Client) Reports() *Reports {
	return &Reports{c: c}
}

func (r *Reports) Car(ctx context.Context, carID int, in domain.SubmitReportRequest) error {
	return r.submit(ctx, fmt.Sprintf("/api/reports/cars/%d", carID), in)
}

func (r *Reports) Seller(ctx context.Context, sellerID int, in domain.SubmitReportRequest) error {
	return r.submit(ctx, fmt.Sprintf("/api/reports/sellers/%d", sellerID), in)
}

func (r *Reports) submit(ctx context.Context, path string, in domain.SubmitReportRequest) error {
	if err := domain.Validate(in); err != nil {
		return err
	}
	_, err := r.c.do(ctx, request{method: http.MethodPost, path: path, json: in}, nil)
	return err
}

// Reference reads the catalog vocabularies.
type Reference struct {
	c *Client
}

func (c *Client) Reference() *Reference {
	return &Reference{c: c}
}

func (r *Reference) All(ctx context.Context, lang string) (*domain.ReferenceData, error) {
	if lang == "" {
		lang = "en"
	}
	var out domain.ReferenceData
	q := url.Values{"lang": {lang}}
	if _, err := r.c.do(ctx, request{method: http.MethodGet, path: "/api/reference-data", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Reference) Brands(ctx context.Context) ([]string, error) {
	return r.names(ctx, "/api/reference-data/brands", nil)
}

// Models returns nothing without a call when brand is empty.
func (r *Reference) Models(ctx context.Context, brand string) ([]string, error) {
	if brand == "" {
		return []string{}, nil
	}
	return r.names(ctx, "/api/reference-data/models", url.Values{"brand": {brand}})
}

func (r *Reference) Submodels(ctx context.Context, brand, model string) ([]string, error) {
	if brand == "" || model == "" {
		return []string{}, nil
	}
	return r.names(ctx, "/api/reference-data/submodels", url.Values{"brand": {brand}, "model": {model}})
}

func (r *Reference) names(ctx context.Context, path string, q url.Values) ([]string, error) {
	var out []string
	if _, err := r.c.do(ctx, request{method: http.MethodGet, path: path, query: q}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// Sellers reads public seller pages. Failures degrade to empty results so a
// missing seller never breaks a listing page.
type Sellers struct {
	c *Client
}

func (c *Client) Sellers() *Sellers {
	return &Sellers{c: c}
}

func (s *Sellers) Get(ctx context.Context, sellerID int) *domain.Seller {
	var out domain.Seller
	if _, err := s.c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/api/sellers/%d", sellerID)}, &out); err != nil {
		return nil
	}
	return &out
}

func (s *Sellers) Contacts(ctx context.Context, sellerID int) []domain.SellerContact {
	var out []domain.SellerContact
	if _, err := s.c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/api/sellers/%d/contacts", sellerID)}, &out); err != nil || out == nil {
		return []domain.SellerContact{}
	}
	return out
}

func (s *Sellers) Cars(ctx context.Context, sellerID int) []domain.CarListing {
	var out []domain.CarListing
	if _, err := s.c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/api/sellers/%d/cars", sellerID)}, &out); err != nil || out == nil {
		return []domain.CarListing{}
	}
	return out
}

// OCR sends registration documents for text extraction.
type OCR struct {
	c *Client
}

func (c *Client) OCR() *OCR {
	return &OCR{c: c}
}

func (o *OCR) VerifyDocument(ctx context.Context, filename string, file io.Reader) (*domain.DocumentVerification, error) {
	var out domain.DocumentVerification
	_, err := o.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/ocr/verify-document",
		file:   &filePart{field: "file", filename: filename, content: file},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
