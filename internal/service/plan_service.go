package service

import (
	"context"
	"log"
	"time"

	"legal-research-be/internal/dto"
	"legal-research-be/internal/entity"
	"legal-research-be/internal/repository/specification"
	"legal-research-be/internal/repository/unitofwork"

	gocache "github.com/patrickmn/go-cache"
)

// FreePlanSlug is the entitlement every user falls back to when their claimed
// plan cannot be resolved.
const FreePlanSlug = "free"

type IPlanService interface {
	// ResolvePlan returns the plan for slug, falling back to the free tier
	// when the slug is unknown or the lookup fails. Never returns nil.
	ResolvePlan(ctx context.Context, slug string) *entity.SubscriptionPlan
	ListPlans(ctx context.Context) ([]*dto.PlanResponse, error)
}

type planService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
}

func NewPlanService(uowFactory unitofwork.RepositoryFactory) IPlanService {
	return &planService{
		uowFactory: uowFactory,
		cache:      gocache.New(1*time.Hour, 10*time.Minute),
	}
}

func (s *planService) ResolvePlan(ctx context.Context, slug string) *entity.SubscriptionPlan {
	if slug == "" {
		slug = FreePlanSlug
	}

	if cached, found := s.cache.Get(slug); found {
		return cached.(*entity.SubscriptionPlan)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	plan, err := uow.SubscriptionPlanRepository().FindBySlug(ctx, slug)
	if err != nil {
		log.Printf("[WARN] Failed to resolve plan %q, falling back to free tier: %v", slug, err)
		return s.freePlan()
	}
	if plan == nil {
		log.Printf("[WARN] Unknown plan %q, falling back to free tier", slug)
		return s.freePlan()
	}

	s.cache.Set(slug, plan, gocache.DefaultExpiration)
	return plan
}

// freePlan is the hardcoded safety net used when the plans table itself is
// unreachable. Matches the seeded free tier.
func (s *planService) freePlan() *entity.SubscriptionPlan {
	return &entity.SubscriptionPlan{
		Slug:           FreePlanSlug,
		Name:           "Free",
		MaxChatsPerDay: 20,
		MaxDocuments:   10,
		AllowWebSearch: false,
	}
}

func (s *planService) ListPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.SubscriptionPlanRepository().FindAll(ctx, specification.OrderBy{Field: "created_at"})
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		responses = append(responses, &dto.PlanResponse{
			Id:              plan.Id,
			Slug:            plan.Slug,
			Name:            plan.Name,
			MaxChatsPerDay:  plan.MaxChatsPerDay,
			MaxDocuments:    plan.MaxDocuments,
			AllowWebSearch:  plan.AllowWebSearch,
			ModelPreference: plan.ModelPreference,
		})
	}
	return responses, nil
}
