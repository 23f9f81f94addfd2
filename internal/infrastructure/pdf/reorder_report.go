// Package pdf genera el reporte de reabastecimiento en PDF.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título              │  Fecha de generación         │
//	│  RESUMEN: productos / bajo punto de reorden / con quiebre    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Stock | Reorden | Cons./día |       │
//	│         Tendencia | Quiebre | Sugerido                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/prediction"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 176, Green: 0, Blue: 32}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ prediction.ReorderReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa prediction.ReorderReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	title string
}

// NewMarotoReportGenerator construye el generador. title vacío usa el título por defecto.
func NewMarotoReportGenerator(title string) *MarotoReportGenerator {
	return &MarotoReportGenerator{title: nonEmpty(title, "Reporte de reabastecimiento")}
}

// GenerateReorderReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateReorderReport(
	_ context.Context,
	lines []prediction.ReorderReportLine,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, generatedAt))
	m.AddRows(summaryRow(lines))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(lines) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin productos activos.", props.Text{Size: 9, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	for _, r := range tableDetailRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, generatedAt time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.UTC().Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// summaryRow: totales del reporte.
func summaryRow(lines []prediction.ReorderReportLine) core.Row {
	var below, withStockout int
	for _, l := range lines {
		if l.BelowReorderPoint {
			below++
		}
		if l.PredictedStockoutDate != nil {
			withStockout++
		}
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Productos: %d   |   Bajo punto de reorden: %d   |   Con quiebre proyectado: %d",
			len(lines), below, withStockout,
		), props.Text{Size: 8, Top: 1, Color: colorGray}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 1, align.Left),
		h("Producto", 3, align.Left),
		h("Stock", 1, align.Right),
		h("Reorden", 1, align.Right),
		h("Cons./día", 1, align.Right),
		h("Tendencia", 2, align.Center),
		h("Quiebre", 2, align.Center),
		h("Sugerido", 1, align.Right),
	)
}

// tableDetailRows: una fila por producto. Los que están bajo el punto de reorden van en rojo.
func tableDetailRows(lines []prediction.ReorderReportLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		var color *props.Color
		if l.BelowReorderPoint {
			color = colorDanger
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{
				Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
			}))
		}
		result = append(result, row.New(7).Add(
			cell(l.SKU, 1, align.Left),
			cell(l.Name, 3, align.Left),
			cell(l.CurrentStock.StringFixed(0), 1, align.Right),
			cell(l.ReorderPoint.StringFixed(0), 1, align.Right),
			cell(l.AverageDailyConsumption.StringFixed(2), 1, align.Right),
			cell(trendLabel(l.Trend), 2, align.Center),
			cell(stockoutLabel(l.PredictedStockoutDate), 2, align.Center),
			cell(fmt.Sprintf("%d", l.SuggestedReorderQuantity), 1, align.Right),
		))
	}
	return result
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Consumo promedio calculado sobre salidas de la ventana configurada. "+
				"La fecha de quiebre asume consumo constante desde hoy.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func trendLabel(t entity.TrendType) string {
	switch t {
	case entity.TrendIncreasing:
		return "En aumento"
	case entity.TrendDecreasing:
		return "En descenso"
	case entity.TrendStable:
		return "Estable"
	}
	return "-"
}

func stockoutLabel(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.Format("02/01/2006")
}
