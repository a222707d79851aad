package db

import (
	"context"
)

/*
Location reference data is replaced wholesale by the sync pipeline:
the carrier's rows are deleted per tier, then reinserted in bulk.
Inserts tolerate duplicate keys (ON CONFLICT DO NOTHING) because two
overlapping sync runs are possible and must not abort each other.
*/

const deleteProvinces = `DELETE FROM provinces WHERE provider_code = $1`

func (q *Queries) DeleteProvinces(ctx context.Context, providerCode string) error {
	_, err := q.db.Exec(ctx, deleteProvinces, providerCode)
	return err
}

const deleteDistricts = `DELETE FROM districts WHERE provider_code = $1`

func (q *Queries) DeleteDistricts(ctx context.Context, providerCode string) error {
	_, err := q.db.Exec(ctx, deleteDistricts, providerCode)
	return err
}

const deleteWards = `DELETE FROM wards WHERE provider_code = $1`

func (q *Queries) DeleteWards(ctx context.Context, providerCode string) error {
	_, err := q.db.Exec(ctx, deleteWards, providerCode)
	return err
}

type CreateProvincesParams struct {
	ProviderCode string
	ProvinceIDs  []int64
	Names        []string
}

const createProvinces = `
INSERT INTO provinces (provider_code, province_id, name)
SELECT $1, unnest($2::bigint[]), unnest($3::text[])
ON CONFLICT (provider_code, province_id) DO NOTHING
`

func (q *Queries) CreateProvinces(ctx context.Context, arg CreateProvincesParams) (int64, error) {
	tag, err := q.db.Exec(ctx, createProvinces, arg.ProviderCode, arg.ProvinceIDs, arg.Names)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type CreateDistrictsParams struct {
	ProviderCode string
	DistrictIDs  []int64
	ProvinceIDs  []int64
	Names        []string
}

const createDistricts = `
INSERT INTO districts (provider_code, district_id, province_id, name)
SELECT $1, unnest($2::bigint[]), unnest($3::bigint[]), unnest($4::text[])
ON CONFLICT (provider_code, district_id) DO NOTHING
`

func (q *Queries) CreateDistricts(ctx context.Context, arg CreateDistrictsParams) (int64, error) {
	tag, err := q.db.Exec(ctx, createDistricts, arg.ProviderCode, arg.DistrictIDs, arg.ProvinceIDs, arg.Names)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type CreateWardsParams struct {
	ProviderCode string
	WardCodes    []string
	DistrictIDs  []int64
	Names        []string
}

const createWards = `
INSERT INTO wards (provider_code, ward_code, district_id, name)
SELECT $1, unnest($2::text[]), unnest($3::bigint[]), unnest($4::text[])
ON CONFLICT (provider_code, ward_code) DO NOTHING
`

func (q *Queries) CreateWards(ctx context.Context, arg CreateWardsParams) (int64, error) {
	tag, err := q.db.Exec(ctx, createWards, arg.ProviderCode, arg.WardCodes, arg.DistrictIDs, arg.Names)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const countProvinces = `SELECT COUNT(*) FROM provinces WHERE provider_code = $1`

func (q *Queries) CountProvinces(ctx context.Context, providerCode string) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countProvinces, providerCode).Scan(&count)
	return count, err
}

const listProvinces = `
SELECT provider_code, province_id, name
FROM provinces
WHERE provider_code = $1
ORDER BY province_id
`

func (q *Queries) ListProvinces(ctx context.Context, providerCode string) ([]Province, error) {
	rows, err := q.db.Query(ctx, listProvinces, providerCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var provinces []Province
	for rows.Next() {
		var p Province
		if err = rows.Scan(&p.ProviderCode, &p.ProvinceID, &p.Name); err != nil {
			return nil, err
		}
		provinces = append(provinces, p)
	}

	return provinces, rows.Err()
}

type ListDistrictsByProvinceParams struct {
	ProviderCode string
	ProvinceID   int64
}

const listDistrictsByProvince = `
SELECT provider_code, district_id, province_id, name
FROM districts
WHERE provider_code = $1 AND province_id = $2
ORDER BY district_id
`

func (q *Queries) ListDistrictsByProvince(ctx context.Context, arg ListDistrictsByProvinceParams) ([]District, error) {
	rows, err := q.db.Query(ctx, listDistrictsByProvince, arg.ProviderCode, arg.ProvinceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var districts []District
	for rows.Next() {
		var d District
		if err = rows.Scan(&d.ProviderCode, &d.DistrictID, &d.ProvinceID, &d.Name); err != nil {
			return nil, err
		}
		districts = append(districts, d)
	}

	return districts, rows.Err()
}

type ListWardsByDistrictParams struct {
	ProviderCode string
	DistrictID   int64
}

const listWardsByDistrict = `
SELECT provider_code, ward_code, district_id, name
FROM wards
WHERE provider_code = $1 AND district_id = $2
ORDER BY ward_code
`

func (q *Queries) ListWardsByDistrict(ctx context.Context, arg ListWardsByDistrictParams) ([]Ward, error) {
	rows, err := q.db.Query(ctx, listWardsByDistrict, arg.ProviderCode, arg.DistrictID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wards []Ward
	for rows.Next() {
		var w Ward
		if err = rows.Scan(&w.ProviderCode, &w.WardCode, &w.DistrictID, &w.Name); err != nil {
			return nil, err
		}
		wards = append(wards, w)
	}

	return wards, rows.Err()
}

type DistrictExistsParams struct {
	ProviderCode string
	DistrictID   int64
}

const districtExists = `
SELECT EXISTS (
    SELECT 1 FROM districts WHERE provider_code = $1 AND district_id = $2
)
`

func (q *Queries) DistrictExists(ctx context.Context, arg DistrictExistsParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, districtExists, arg.ProviderCode, arg.DistrictID).Scan(&exists)
	return exists, err
}
