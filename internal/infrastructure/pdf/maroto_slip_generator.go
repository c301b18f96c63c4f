// Package pdf implementa la papeleta imprimible de una requisición: el
// documento que firma quien recibe los insumos en la entrega física.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Papeleta de Requisición │ N° + Fecha               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DEPARTAMENTO: nombre + destino (depto/personal)             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Ítem | Costo estimado                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ESTADO + firmas: aprobador(es) / quien recibe               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/suministros-api/internal/application/requisition"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ requisition.SlipGenerator = (*MarotoSlipGenerator)(nil)

// MarotoSlipGenerator implementa requisition.SlipGenerator usando Maroto v2.
type MarotoSlipGenerator struct{}

// NewMarotoSlipGenerator construye el generador.
func NewMarotoSlipGenerator() *MarotoSlipGenerator { return &MarotoSlipGenerator{} }

// Generate genera la papeleta y devuelve sus bytes.
func (g *MarotoSlipGenerator) Generate(
	req *entity.Requisition,
	dept *entity.Department,
	itemNames map[string]string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Papeleta de Requisición "+req.RequisitionNo, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(req))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(departmentRow(req, dept))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(req, itemNames) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(statusRow(req))
	m.AddRows(line.NewRow(6))
	m.AddRows(signatureRow(req))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar papeleta: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y número + fecha (der).
func headerRow(req *entity.Requisition) core.Row {
	fecha := req.CreatedAt.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New("PAPELETA DE REQUISICIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Suministros internos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(req.RequisitionNo, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 4,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// departmentRow: departamento solicitante, destino y motivo.
func departmentRow(req *entity.Requisition, dept *entity.Department) core.Row {
	destino := "Departamento"
	if req.RequestedForType == entity.RequestedForPersonal {
		destino = "Personal: " + req.RequestedForUserID
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("DEPARTAMENTO SOLICITANTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(dept.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Destino: %s   |   Urgencia: %s   |   Motivo: %s",
				destino, req.Urgency, req.Purpose,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de renglones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Ítem", 7, align.Left),
		h("Costo estimado", 3, align.Right),
	)
}

// tableItemRows: una fila por renglón de la requisición.
func tableItemRows(req *entity.Requisition, itemNames map[string]string) []core.Row {
	result := make([]core.Row, 0, len(req.Items))
	for _, it := range req.Items {
		name := itemNames[it.ItemID]
		if name == "" {
			name = it.ItemID
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(7).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				"$"+it.EstimatedUnitCost.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// statusRow: estado actual y quién aprobó cada nivel.
func statusRow(req *entity.Requisition) core.Row {
	aprobacion := "—"
	if req.ApprovedByL1ID != "" {
		aprobacion = "Nivel 1: " + req.ApprovedByL1ID
		if req.ApprovedByL2ID != "" {
			aprobacion += "   |   Nivel 2: " + req.ApprovedByL2ID
		}
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("Estado: "+string(req.Status), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 1, Color: colorPrimary,
			}),
			text.New("Aprobación: "+aprobacion, props.Text{
				Size: 8, Top: 7, Color: colorGray,
			}),
		),
	)
}

// signatureRow: líneas de firma para la entrega física.
func signatureRow(req *entity.Requisition) core.Row {
	sig := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{
				Size: 9, Align: align.Center, Top: 2,
			}),
			text.New(label, props.Text{
				Size: 8, Align: align.Center, Top: 8, Color: colorGray,
			}),
		)
	}
	return row.New(16).Add(
		sig("Entrega (bodega)"),
		sig("Recibe ("+req.RequestedByUserID+")"),
	)
}
