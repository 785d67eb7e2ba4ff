package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/go-sql-driver/mysql"
)

// SellerInfoRepository manages the shipping columns that only sellers carry.
// Countries and rates are stored as JSON text alongside the account columns.
type SellerInfoRepository struct {
	db *sql.DB
}

func NewSellerInfoRepository(db *sql.DB) *SellerInfoRepository {
	return &SellerInfoRepository{db: db}
}

func (r *SellerInfoRepository) GetShipping(ctx context.Context, sellerID string) ([]string, map[string]float64, error) {
	query := `SELECT shipping_countries, shipping_rates FROM sellers WHERE id = ?`

	var countriesJSON, ratesJSON sql.NullString
	err := r.db.QueryRowContext(ctx, query, sellerID).Scan(&countriesJSON, &ratesJSON)
	if err != nil {
		return nil, nil, err
	}

	countries := []string{}
	if countriesJSON.Valid && countriesJSON.String != "" {
		if err := json.Unmarshal([]byte(countriesJSON.String), &countries); err != nil {
			return nil, nil, err
		}
	}

	rates := map[string]float64{}
	if ratesJSON.Valid && ratesJSON.String != "" {
		if err := json.Unmarshal([]byte(ratesJSON.String), &rates); err != nil {
			return nil, nil, err
		}
	}
	return countries, rates, nil
}

func (r *SellerInfoRepository) UpdateShipping(ctx context.Context, sellerID string, countries []string, rates map[string]float64) error {
	countriesJSON, err := json.Marshal(countries)
	if err != nil {
		return err
	}
	ratesJSON, err := json.Marshal(rates)
	if err != nil {
		return err
	}

	query := `UPDATE sellers SET shipping_countries = ?, shipping_rates = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query, string(countriesJSON), string(ratesJSON), sellerID)
	return err
}
