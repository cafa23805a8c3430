package costing

import (
	"furnicost/pkg/logger"
)

// Observer receives every result computed by an Engine. Implementations must not
// modify the result.
type Observer interface {
	ObserveCost(p Product, r Result)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(p Product, r Result)

// ObserveCost implements Observer.
func (f ObserverFunc) ObserveCost(p Product, r Result) { f(p, r) }

// LogObserver writes the cost breakdown as a structured debug line.
func LogObserver(log *logger.Logger) Observer {
	return ObserverFunc(func(p Product, r Result) {
		log.Debugw("cost calculated",
			"product", p.Name,
			"article", p.Article,
			"materials_cost", r.MaterialsCost.String(),
			"materials_rows", len(r.Breakdown.Materials.Items),
			"paint_cost", r.PaintCost.String(),
			"paint_jobs", len(r.Breakdown.Paint.Jobs),
			"surface_area", r.SurfaceArea.StringFixed(4),
			"labor_cost", r.LaborCost.String(),
			"total_cost", r.TotalCost.String(),
			"markup_percent", r.MarkupPercent.String(),
			"final_price", r.FinalPrice.String(),
			"gross_margin", r.GrossMargin.StringFixed(2),
			"roi", r.ROI.StringFixed(2),
			"has_errors", r.HasErrors,
		)
	})
}
