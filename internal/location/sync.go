// Package location refreshes the province/district/ward reference store from
// the carrier's master data.
package location

import (
	"context"
	"fmt"

	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
	"github.com/lehoangphuc/vietshop-BE/internal/ghn"
	"github.com/rs/zerolog/log"
)

// MasterDataClient is the slice of the carrier client the syncer needs.
type MasterDataClient interface {
	GetProvinces(ctx context.Context) ([]ghn.Province, error)
	GetDistricts(ctx context.Context, provinceID int64) ([]ghn.District, error)
	GetWards(ctx context.Context, districtID int64) ([]ghn.Ward, error)
}

// Store is the slice of the db store the syncer writes to.
type Store interface {
	DeleteProvinces(ctx context.Context, providerCode string) error
	DeleteDistricts(ctx context.Context, providerCode string) error
	DeleteWards(ctx context.Context, providerCode string) error
	CreateProvinces(ctx context.Context, arg db.CreateProvincesParams) (int64, error)
	CreateDistricts(ctx context.Context, arg db.CreateDistrictsParams) (int64, error)
	CreateWards(ctx context.Context, arg db.CreateWardsParams) (int64, error)
	CountProvinces(ctx context.Context, providerCode string) (int64, error)
}

type Syncer struct {
	store        Store
	client       MasterDataClient
	providerCode string
}

func NewSyncer(store Store, client MasterDataClient, providerCode string) *Syncer {
	return &Syncer{
		store:        store,
		client:       client,
		providerCode: providerCode,
	}
}

// Stats summarizes one sync run.
type Stats struct {
	Provinces        int64 `json:"provinces"`
	Districts        int64 `json:"districts"`
	Wards            int64 `json:"wards"`
	SkippedProvinces int   `json:"skipped_provinces"`
	SkippedDistricts int   `json:"skipped_districts"`
}

// SyncAll thay toàn bộ dữ liệu tham chiếu địa giới của carrier: xoá theo
// từng tầng rồi chèn lại từ master data.
//
// Việc fetch chạy TUẦN TỰ qua từng tỉnh, từng quận vì GHN giới hạn tần suất
// gọi, chạy song song sẽ bị chặn. Đừng song song hoá nếu chưa tính lại
// ngân sách rate limit. Một tỉnh hoặc một quận fetch lỗi thì bỏ qua và chạy
// tiếp, không huỷ cả đợt sync.
func (s *Syncer) SyncAll(ctx context.Context) (Stats, error) {
	var stats Stats

	provinces, err := s.client.GetProvinces(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch provinces: %w", err)
	}
	if len(provinces) == 0 {
		return stats, fmt.Errorf("carrier returned no provinces, refusing to wipe reference data")
	}

	if err = s.store.DeleteProvinces(ctx, s.providerCode); err != nil {
		return stats, fmt.Errorf("failed to clear provinces: %w", err)
	}
	if err = s.store.DeleteDistricts(ctx, s.providerCode); err != nil {
		return stats, fmt.Errorf("failed to clear districts: %w", err)
	}
	if err = s.store.DeleteWards(ctx, s.providerCode); err != nil {
		return stats, fmt.Errorf("failed to clear wards: %w", err)
	}

	provinceParams := db.CreateProvincesParams{ProviderCode: s.providerCode}
	for _, p := range provinces {
		provinceParams.ProvinceIDs = append(provinceParams.ProvinceIDs, p.ProvinceID)
		provinceParams.Names = append(provinceParams.Names, p.Name)
	}

	inserted, err := s.store.CreateProvinces(ctx, provinceParams)
	if err != nil {
		return stats, fmt.Errorf("failed to insert provinces: %w", err)
	}
	stats.Provinces = inserted

	for _, province := range provinces {
		districts, err := s.client.GetDistricts(ctx, province.ProvinceID)
		if err != nil {
			stats.SkippedProvinces++
			log.Error().Err(err).
				Int64("province_id", province.ProvinceID).
				Str("province", province.Name).
				Msg("failed to fetch districts, skipping province")
			continue
		}

		districtParams := db.CreateDistrictsParams{ProviderCode: s.providerCode}
		for _, d := range districts {
			districtParams.DistrictIDs = append(districtParams.DistrictIDs, d.DistrictID)
			districtParams.ProvinceIDs = append(districtParams.ProvinceIDs, d.ProvinceID)
			districtParams.Names = append(districtParams.Names, d.Name)
		}

		if len(districtParams.DistrictIDs) > 0 {
			inserted, err = s.store.CreateDistricts(ctx, districtParams)
			if err != nil {
				stats.SkippedProvinces++
				log.Error().Err(err).
					Int64("province_id", province.ProvinceID).
					Msg("failed to insert districts, skipping province")
				continue
			}
			stats.Districts += inserted
		}

		for _, district := range districts {
			wards, err := s.client.GetWards(ctx, district.DistrictID)
			if err != nil {
				stats.SkippedDistricts++
				log.Error().Err(err).
					Int64("district_id", district.DistrictID).
					Str("district", district.Name).
					Msg("failed to fetch wards, skipping district")
				continue
			}
			if len(wards) == 0 {
				continue
			}

			wardParams := db.CreateWardsParams{ProviderCode: s.providerCode}
			for _, w := range wards {
				wardParams.WardCodes = append(wardParams.WardCodes, w.WardCode)
				wardParams.DistrictIDs = append(wardParams.DistrictIDs, w.DistrictID)
				wardParams.Names = append(wardParams.Names, w.Name)
			}

			inserted, err = s.store.CreateWards(ctx, wardParams)
			if err != nil {
				stats.SkippedDistricts++
				log.Error().Err(err).
					Int64("district_id", district.DistrictID).
					Msg("failed to insert wards, skipping district")
				continue
			}
			stats.Wards += inserted
		}
	}

	log.Info().
		Int64("provinces", stats.Provinces).
		Int64("districts", stats.Districts).
		Int64("wards", stats.Wards).
		Int("skipped_provinces", stats.SkippedProvinces).
		Int("skipped_districts", stats.SkippedDistricts).
		Str("provider", s.providerCode).
		Msg("location reference sync completed")

	return stats, nil
}

// IsEmpty reports whether no reference data has been synced yet.
func (s *Syncer) IsEmpty(ctx context.Context) (bool, error) {
	count, err := s.store.CountProvinces(ctx, s.providerCode)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
