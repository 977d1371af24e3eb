package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pichanga-app/pichanga-backend/models"
	"github.com/pichanga-app/pichanga-backend/repositories"
)

// HomePromos is the promotional content of the home screen.
type HomePromos struct {
	Banners  []*models.Banner  `json:"banners"`
	Sponsors []*models.Sponsor `json:"sponsors"`
}

type PromoService struct {
	promoRepo repositories.PromoRepository
}

func NewPromoService(promoRepo repositories.PromoRepository) *PromoService {
	return &PromoService{promoRepo: promoRepo}
}

func (s *PromoService) Home(ctx context.Context) (*HomePromos, error) {
	promos := &HomePromos{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		banners, err := s.promoRepo.ListActiveBanners(gctx, nil)
		promos.Banners = banners
		return err
	})
	g.Go(func() error {
		sponsors, err := s.promoRepo.ListActiveSponsors(gctx, nil)
		promos.Sponsors = sponsors
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return promos, nil
}
