package db

import (
	"context"
	"encoding/json"
	"fmt"
)

const listActiveShippingProviders = `
SELECT id, code, name, base_url, api_token, shop_id, origin_district_id, origin_ward_code, service_types, is_active, deleted_at, created_at
FROM shipping_providers
WHERE is_active = TRUE AND deleted_at IS NULL
ORDER BY id
`

func (q *Queries) ListActiveShippingProviders(ctx context.Context) ([]ShippingProvider, error) {
	rows, err := q.db.Query(ctx, listActiveShippingProviders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []ShippingProvider
	for rows.Next() {
		provider, err := scanShippingProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}

	return providers, rows.Err()
}

const getShippingProviderByCode = `
SELECT id, code, name, base_url, api_token, shop_id, origin_district_id, origin_ward_code, service_types, is_active, deleted_at, created_at
FROM shipping_providers
WHERE code = $1 AND deleted_at IS NULL
`

func (q *Queries) GetShippingProviderByCode(ctx context.Context, code string) (ShippingProvider, error) {
	row := q.db.QueryRow(ctx, getShippingProviderByCode, code)
	return scanShippingProvider(row)
}

type UpsertShippingProviderParams struct {
	Code             string
	Name             string
	BaseURL          string
	APIToken         string
	ShopID           string
	OriginDistrictID int64
	OriginWardCode   string
	ServiceTypes     []ProviderServiceType
	IsActive         bool
}

const upsertShippingProvider = `
INSERT INTO shipping_providers (code, name, base_url, api_token, shop_id, origin_district_id, origin_ward_code, service_types, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (code) DO UPDATE SET
    name = EXCLUDED.name,
    base_url = EXCLUDED.base_url,
    api_token = EXCLUDED.api_token,
    shop_id = EXCLUDED.shop_id,
    origin_district_id = EXCLUDED.origin_district_id,
    origin_ward_code = EXCLUDED.origin_ward_code,
    service_types = EXCLUDED.service_types,
    is_active = EXCLUDED.is_active
RETURNING id, code, name, base_url, api_token, shop_id, origin_district_id, origin_ward_code, service_types, is_active, deleted_at, created_at
`

// UpsertShippingProvider seeds or refreshes one carrier profile.
// Credential rotation goes through here; clients read the row per call.
func (q *Queries) UpsertShippingProvider(ctx context.Context, arg UpsertShippingProviderParams) (ShippingProvider, error) {
	serviceTypes, err := json.Marshal(arg.ServiceTypes)
	if err != nil {
		return ShippingProvider{}, fmt.Errorf("failed to marshal service types: %w", err)
	}

	row := q.db.QueryRow(ctx, upsertShippingProvider,
		arg.Code,
		arg.Name,
		arg.BaseURL,
		arg.APIToken,
		arg.ShopID,
		arg.OriginDistrictID,
		arg.OriginWardCode,
		serviceTypes,
		arg.IsActive,
	)
	return scanShippingProvider(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShippingProvider(row rowScanner) (ShippingProvider, error) {
	var provider ShippingProvider
	var serviceTypes []byte

	err := row.Scan(
		&provider.ID,
		&provider.Code,
		&provider.Name,
		&provider.BaseURL,
		&provider.APIToken,
		&provider.ShopID,
		&provider.OriginDistrictID,
		&provider.OriginWardCode,
		&serviceTypes,
		&provider.IsActive,
		&provider.DeletedAt,
		&provider.CreatedAt,
	)
	if err != nil {
		return ShippingProvider{}, err
	}

	if len(serviceTypes) > 0 {
		if err = json.Unmarshal(serviceTypes, &provider.ServiceTypes); err != nil {
			return ShippingProvider{}, fmt.Errorf("failed to unmarshal service types: %w", err)
		}
	}

	return provider, nil
}
