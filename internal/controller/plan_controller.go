package controller

import (
	"legal-research-be/internal/pkg/serverutils"
	"legal-research-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPlanController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
}

type planController struct {
	planService service.IPlanService
}

func NewPlanController(planService service.IPlanService) IPlanController {
	return &planController{
		planService: planService,
	}
}

func (c *planController) RegisterRoutes(r fiber.Router) {
	// Public: the pricing page needs plans before login.
	r.Get("/plans", c.List)
}

func (c *planController) List(ctx *fiber.Ctx) error {
	res, err := c.planService.ListPlans(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Plans retrieved", res))
}
