package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type employeeEvent struct {
	Employee string `json:"employee"`
}

type datesEvent struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type scorecardDateEvent struct {
	Date string `json:"date"`
}

type askEvent struct {
	Question string `json:"question"`
}

func handleInit(reg *sessionRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in pageInit
		if err := c.ShouldBindJSON(&in); err != nil {
			validationError(c, err.Error())
			return
		}
		if in.PageID == "" {
			in.PageID = pageIDFrom(c)
		}
		if strings.TrimSpace(in.PageID) == "" {
			validationError(c, "page is required")
			return
		}

		p, created := reg.open(c.Request.Context(), clientIDFrom(c), upstreamCookie(c), in)
		if p == nil {
			notFound(c, "unknown dashboard page")
			return
		}
		if created {
			p.run(func(ctx context.Context) { p.dash.initialize(ctx, in.Start, in.End) })
		}
		c.JSON(http.StatusAccepted, okResponse{OK: true})
	}
}

// handleEvent binds the event body and hands it to fire on the tab's
// background context.
func handleEvent[T any](reg *sessionRegistry, fire func(ctx context.Context, d *dashboard, ev T)) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := reg.get(pageIDFrom(c), clientCookie(c), upstreamCookie(c))
		if !ok {
			notFound(c, "unknown dashboard page")
			return
		}
		var ev T
		if err := c.ShouldBindJSON(&ev); err != nil {
			validationError(c, err.Error())
			return
		}
		p.run(func(ctx context.Context) { fire(ctx, p.dash, ev) })
		c.JSON(http.StatusAccepted, okResponse{OK: true})
	}
}

func handleState(reg *sessionRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := reg.get(pageIDFrom(c), clientCookie(c), upstreamCookie(c))
		if !ok {
			notFound(c, "unknown dashboard page")
			return
		}
		c.JSON(http.StatusOK, p.dash.view.snapshot())
	}
}

func registerEventRoutes(r gin.IRouter, reg *sessionRegistry) {
	g := r.Group("/dashboard")
	g.POST("/init", handleInit(reg))
	g.GET("/state", handleState(reg))
	g.POST("/events/employee", handleEvent(reg, func(ctx context.Context, d *dashboard, ev employeeEvent) {
		d.onEmployeeChange(ctx, ev.Employee)
	}))
	g.POST("/events/dates", handleEvent(reg, func(ctx context.Context, d *dashboard, ev datesEvent) {
		d.onDatesChanged(ctx, ev.Start, ev.End)
	}))
	g.POST("/events/apply", handleEvent(reg, func(ctx context.Context, d *dashboard, ev datesEvent) {
		d.onApply(ctx, ev.Start, ev.End)
	}))
	g.POST("/events/scorecard-date", handleEvent(reg, func(ctx context.Context, d *dashboard, ev scorecardDateEvent) {
		d.onScorecardDate(ctx, ev.Date)
	}))
	g.POST("/events/drilldown", handleEvent(reg, func(ctx context.Context, d *dashboard, ev drilldownTarget) {
		d.openDrilldown(ctx, ev)
	}))
	g.POST("/events/close-modal", handleEvent(reg, func(_ context.Context, d *dashboard, _ struct{}) {
		d.closeDrilldown()
	}))
	g.POST("/events/ask", handleEvent(reg, func(ctx context.Context, d *dashboard, ev askEvent) {
		d.askAI(ctx, ev.Question)
	}))
}
