package main

import (
	"context"

	"github.com/BruksfildServices01/booking-availability/internal/domain/interval"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/infra/memstore"
	"github.com/BruksfildServices01/booking-availability/internal/models"
)

// seedDemo gives the in-memory store one bookable business at /api/public/demo.
func seedDemo(store *memstore.Store) {
	biz := store.AddBusiness(models.Business{
		Name:              "Demo",
		Slug:              "demo",
		Timezone:          "America/Sao_Paulo",
		MinAdvanceMinutes: 60,
	})
	res := store.AddResource(models.Resource{BusinessID: biz.ID, Name: "Chair 1", Active: true})
	store.AddService(models.Service{BusinessID: biz.ID, Name: "Haircut", DurationMin: 30, Price: 50, Active: true})

	var week []schedule.WorkingHours
	for wd := interval.Monday; wd <= interval.Friday; wd++ {
		week = append(week, schedule.WorkingHours{
			Weekday: wd,
			Active:  true,
			Slots: []interval.ClockRange{
				{Start: 9 * 60, End: 12 * 60},
				{Start: 13 * 60, End: 18 * 60},
			},
		})
	}
	_ = store.ReplaceWorkingHours(context.Background(), biz.ID, res.ID, week)
}
