package requisition_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/requisition"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/infrastructure/memory"
)

const (
	deptCompras  = "dept-compras"
	locDeposito  = "loc-deposito"
	itemPapel    = "item-papel"
	itemToner    = "item-toner"
	solicitante  = "user-solicitante"
	aprobadorL1  = "user-jefe"
	aprobadorL2  = "user-gerente"
	otroUsuario  = "user-ajeno"
)

// spyNotifier registra las notificaciones despachadas por el workflow.
type spyNotifier struct {
	submitted []string
	decided   []string
}

func (n *spyNotifier) RequisitionSubmitted(req *entity.Requisition) {
	n.submitted = append(n.submitted, req.RequisitionNo)
}

func (n *spyNotifier) RequisitionDecided(req *entity.Requisition) {
	n.decided = append(n.decided, req.RequisitionNo)
}

type fixture struct {
	store    *memory.Store
	uc       *requisition.WorkflowUseCase
	notifier *spyNotifier
}

func (f *fixture) actor(userID string) requisition.Actor {
	return requisition.Actor{UserID: userID, DepartmentID: deptCompras}
}

// seedStock fija la existencia de un ítem en el depósito del departamento.
func (f *fixture) seedStock(t *testing.T, itemID string, qty int64) {
	t.Helper()
	err := f.store.Stock().Upsert(&entity.StockRecord{
		ItemID: itemID, LocationID: locDeposito, Quantity: qty, UpdatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func (f *fixture) stockQty(t *testing.T, itemID string) int64 {
	t.Helper()
	rec, err := f.store.Stock().Get(itemID, locDeposito)
	require.NoError(t, err)
	return rec.Quantity
}

// newWorkflowFixture siembra catálogo y departamento con cadena de un nivel
// (L2 sin configurar) y devuelve el caso de uso listo.
func newWorkflowFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	require.NoError(t, store.Items().Create(&entity.Item{
		ID: itemPapel, Name: "Resma papel carta", Unit: "resma",
		DefaultUnitCost: decimal.RequireFromString("4.75"), CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Items().Create(&entity.Item{
		ID: itemToner, Name: "Tóner negro", Unit: "unidad",
		DefaultUnitCost: decimal.RequireFromString("38.00"), CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Locations().Create(&entity.Location{
		ID: locDeposito, Name: "Depósito compras", Type: entity.LocationTypeDepartment, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Departments().Create(&entity.Department{
		ID: deptCompras, Name: "Compras", DefaultLocationID: locDeposito,
		ApproverL1ID: aprobadorL1, CreatedAt: now, UpdatedAt: now,
	}))
	notifier := &spyNotifier{}
	uc := requisition.NewWorkflowUseCase(store, store.Requisitions(), store.Departments(), store.Items(), notifier)
	return &fixture{store: store, uc: uc, notifier: notifier}
}

// requireTwoLevels reconfigura el departamento con segundo aprobador obligatorio.
func (f *fixture) requireTwoLevels(t *testing.T) {
	t.Helper()
	dept, err := f.store.Departments().GetByID(deptCompras)
	require.NoError(t, err)
	dept.ApproverL2ID = aprobadorL2
	dept.RequiresTwoLevels = true
	require.NoError(t, f.store.Departments().Update(dept))
}

func (f *fixture) create(t *testing.T, items ...dto.RequisitionItemRequest) *entity.Requisition {
	t.Helper()
	req, err := f.uc.Create(context.Background(), f.actor(solicitante), requisition.CreateInput{
		RequestedForType: entity.RequestedForDepartment,
		Purpose:          "reposición mensual de oficina",
		Urgency:          entity.UrgencyNormal,
		Items:            items,
	})
	require.NoError(t, err)
	return req
}

func (f *fixture) createSubmitted(t *testing.T, items ...dto.RequisitionItemRequest) *entity.Requisition {
	t.Helper()
	req := f.create(t, items...)
	submitted, err := f.uc.Submit(context.Background(), f.actor(solicitante), req.RequisitionNo)
	require.NoError(t, err)
	return submitted
}

func TestCreate_AsignaConsecutivoYSnapshot(t *testing.T) {
	f := newWorkflowFixture(t)

	req := f.create(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 3})

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("REQ-%d-000001", year), req.RequisitionNo)
	assert.Equal(t, entity.RequisitionDraft, req.Status)
	require.Len(t, req.Items, 1)
	assert.True(t, req.Items[0].EstimatedUnitCost.Equal(decimal.RequireFromString("4.75")),
		"el renglón debe congelar el costo del catálogo al crearse")

	second := f.create(t, dto.RequisitionItemRequest{ItemID: itemToner, Quantity: 1})
	assert.Equal(t, fmt.Sprintf("REQ-%d-000002", year), second.RequisitionNo)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, f.actor(solicitante), requisition.CreateInput{
		RequestedForType: entity.RequestedForDepartment,
		Purpose:          "sin renglones",
		Urgency:          entity.UrgencyNormal,
	})
	assert.ErrorIs(t, err, domain.ErrEmptyRequisition)

	_, err = f.uc.Create(ctx, f.actor(solicitante), requisition.CreateInput{
		RequestedForType: entity.RequestedForPersonal, // sin destinatario
		Purpose:          "equipo personal",
		Urgency:          entity.UrgencyNormal,
		Items:            []dto.RequisitionItemRequest{{ItemID: itemPapel, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, f.actor(solicitante), requisition.CreateInput{
		RequestedForType: entity.RequestedForDepartment,
		Purpose:          "renglón sin cantidad",
		Urgency:          entity.UrgencyNormal,
		Items:            []dto.RequisitionItemRequest{{ItemID: itemPapel, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.uc.Create(ctx, f.actor(solicitante), requisition.CreateInput{
		RequestedForType: entity.RequestedForDepartment,
		Purpose:          "ítem fantasma",
		Urgency:          entity.UrgencyNormal,
		Items:            []dto.RequisitionItemRequest{{ItemID: "item-x", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateItems_SoloEnDraftYSoloElSolicitante(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	req := f.create(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 3})

	updated, err := f.uc.UpdateItems(ctx, f.actor(solicitante), req.RequisitionNo,
		[]dto.RequisitionItemRequest{{ItemID: itemToner, Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, itemToner, updated.Items[0].ItemID)

	_, err = f.uc.UpdateItems(ctx, f.actor(otroUsuario), req.RequisitionNo,
		[]dto.RequisitionItemRequest{{ItemID: itemPapel, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Submit(ctx, f.actor(solicitante), req.RequisitionNo)
	require.NoError(t, err)
	_, err = f.uc.UpdateItems(ctx, f.actor(solicitante), req.RequisitionNo,
		[]dto.RequisitionItemRequest{{ItemID: itemPapel, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "tras enviar, los renglones quedan congelados")
}

func TestSubmit_PasaAPendingYNotifica(t *testing.T) {
	f := newWorkflowFixture(t)
	req := f.create(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 3})

	submitted, err := f.uc.Submit(context.Background(), f.actor(solicitante), req.RequisitionNo)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionPending, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)
	assert.Equal(t, []string{req.RequisitionNo}, f.notifier.submitted)

	// reenviar no es una transición válida
	_, err = f.uc.Submit(context.Background(), f.actor(solicitante), req.RequisitionNo)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestSubmit_SoloElSolicitante(t *testing.T) {
	f := newWorkflowFixture(t)
	req := f.create(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 3})

	_, err := f.uc.Submit(context.Background(), f.actor(otroUsuario), req.RequisitionNo)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// aprobación de un nivel: la requisición queda fulfilled y el débito corre
// exactamente una vez contra el depósito del departamento.
func TestApprove_UnNivelCumpleYDebita(t *testing.T) {
	f := newWorkflowFixture(t)
	f.seedStock(t, itemPapel, 10)
	f.seedStock(t, itemToner, 5)
	req := f.createSubmitted(t,
		dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 4},
		dto.RequisitionItemRequest{ItemID: itemToner, Quantity: 1},
	)

	approved, err := f.uc.Approve(context.Background(), f.actor(aprobadorL1), req.RequisitionNo)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionFulfilled, approved.Status)
	assert.Equal(t, aprobadorL1, approved.ApprovedByL1ID)
	require.NotNil(t, approved.DecidedAt)
	require.NotNil(t, approved.FulfilledAt)

	assert.Equal(t, int64(6), f.stockQty(t, itemPapel))
	assert.Equal(t, int64(4), f.stockQty(t, itemToner))
	assert.Equal(t, []string{req.RequisitionNo}, f.notifier.decided)

	// historial: un movimiento por renglón, trazable a la requisición
	movs, err := f.store.Movements().ListByLocation(locDeposito, nil, nil, 100, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, approved.ID, m.TransactionID)
		assert.Equal(t, aprobadorL1, m.Actor)
	}
}

// segundo Approve sobre una requisición ya cumplida: ErrInvalidState y el
// stock no se debita de nuevo.
func TestApprove_SegundoIntentoNoDebitaOtraVez(t *testing.T) {
	f := newWorkflowFixture(t)
	f.seedStock(t, itemPapel, 10)
	req := f.createSubmitted(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 4})

	_, err := f.uc.Approve(context.Background(), f.actor(aprobadorL1), req.RequisitionNo)
	require.NoError(t, err)
	require.Equal(t, int64(6), f.stockQty(t, itemPapel))

	_, err = f.uc.Approve(context.Background(), f.actor(aprobadorL1), req.RequisitionNo)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(6), f.stockQty(t, itemPapel), "el débito debe ocurrir exactamente una vez")
}

// la máquina de estados es cerrada: aprobar o rechazar un borrador no son
// transiciones declaradas y no mutan nada.
func TestApprove_EnBorradorEsEstadoInvalido(t *testing.T) {
	f := newWorkflowFixture(t)
	f.seedStock(t, itemPapel, 10)
	req := f.create(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 4})
	ctx := context.Background()

	_, err := f.uc.Approve(ctx, f.actor(aprobadorL1), req.RequisitionNo)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	var state *domain.StateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, string(entity.RequisitionDraft), state.Current)
	assert.Equal(t, int64(10), f.stockQty(t, itemPapel))

	_, err = f.uc.Reject(ctx, f.actor(aprobadorL1), req.RequisitionNo, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// dos Approve concurrentes sobre la misma requisición: exactamente uno cumple
// y debita; el otro pierde con ErrInvalidState y el stock no cambia de nuevo.
func TestApprove_ConcurrentesDebitanUnaVez(t *testing.T) {
	f := newWorkflowFixture(t)
	f.seedStock(t, itemPapel, 10)
	req := f.createSubmitted(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 4})

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := f.uc.Approve(context.Background(), f.actor(aprobadorL1), req.RequisitionNo)
			results <- err
		}()
	}

	var fulfilled, invalid int
	for i := 0; i < 2; i++ {
		err := <-results
		switch {
		case err == nil:
			fulfilled++
		case errors.Is(err, domain.ErrInvalidState):
			invalid++
		default:
			t.Fatalf("error inesperado en Approve concurrente: %v", err)
		}
	}
	assert.Equal(t, 1, fulfilled, "exactamente un Approve debe ganar")
	assert.Equal(t, 1, invalid, "el perdedor debe ver la transición inválida")
	assert.Equal(t, int64(6), f.stockQty(t, itemPapel), "el débito debe ocurrir exactamente una vez")

	stored, err := f.store.Requisitions().GetByNo(req.RequisitionNo)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionFulfilled, stored.Status)
}

// el cumplimiento debita los renglones en orden ascendente de ítem aunque la
// requisición los liste al revés: mismo criterio determinista que Transfer
// aplica a las ubicaciones.
func TestApprove_DebitaEnOrdenDeItem(t *testing.T) {
	f := newWorkflowFixture(t)
	f.seedStock(t, itemPapel, 10)
	f.seedStock(t, itemToner, 5)
	req := f.createSubmitted(t,
		dto.RequisitionItemRequest{ItemID: itemToner, Quantity: 1}, // tóner primero
		dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 4},
	)

	_, err := f.uc.Approve(context.Background(), f.actor(aprobadorL1), req.RequisitionNo)
	require.NoError(t, err)

	movs, err := f.store.Movements().ListByLocation(locDeposito, nil, nil, 100, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, itemPapel, movs[0].ItemID, "los débitos siguen el orden ascendente de ítem")
	assert.Equal(t, itemToner, movs[1].ItemID)
}

func TestApprove_NoAutorizado(t *testing.T) {
	f := newWorkflowFixture(t)
	f.seedStock(t, itemPapel, 10)
	req := f.createSubmitted(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 1})

	_, err := f.uc.Approve(context.Background(), f.actor(otroUsuario), req.RequisitionNo)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// el propio solicitante tampoco puede aprobarse
	_, err = f.uc.Approve(context.Background(), f.actor(solicitante), req.RequisitionNo)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// cadena de dos niveles: L1 deja la requisición pending con su firma; el
// cumplimiento solo ocurre cuando firma L2.
func TestApprove_DosNiveles(t *testing.T) {
	f := newWorkflowFixture(t)
	f.requireTwoLevels(t)
	f.seedStock(t, itemPapel, 10)
	req := f.createSubmitted(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 4})
	ctx := context.Background()

	first, err := f.uc.Approve(ctx, f.actor(aprobadorL1), req.RequisitionNo)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionPending, first.Status)
	assert.Equal(t, aprobadorL1, first.ApprovedByL1ID)
	assert.Empty(t, first.ApprovedByL2ID)
	assert.Equal(t, int64(10), f.stockQty(t, itemPapel), "nada se debita hasta el último nivel")

	// L1 no puede firmar también el segundo nivel
	_, err = f.uc.Approve(ctx, f.actor(aprobadorL1), req.RequisitionNo)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// L2 no puede saltarse a L1: su turno es el nivel 2, no el 1
	second, err := f.uc.Approve(ctx, f.actor(aprobadorL2), req.RequisitionNo)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionFulfilled, second.Status)
	assert.Equal(t, aprobadorL2, second.ApprovedByL2ID)
	assert.Equal(t, int64(6), f.stockQty(t, itemPapel))
}

func TestApprove_DosNiveles_L2NoPuedeFirmarPrimero(t *testing.T) {
	f := newWorkflowFixture(t)
	f.requireTwoLevels(t)
	f.seedStock(t, itemPapel, 10)
	req := f.createSubmitted(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 1})

	_, err := f.uc.Approve(context.Background(), f.actor(aprobadorL2), req.RequisitionNo)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// urgencia alta escala a dos niveles aunque el departamento no los exija,
// siempre que tenga L2 configurado.
func TestApprove_UrgenciaAltaEscalaADosNiveles(t *testing.T) {
	f := newWorkflowFixture(t)
	dept, err := f.store.Departments().GetByID(deptCompras)
	require.NoError(t, err)
	dept.ApproverL2ID = aprobadorL2 // dos niveles disponibles pero no forzados
	require.NoError(t, f.store.Departments().Update(dept))
	f.seedStock(t, itemPapel, 10)
	ctx := context.Background()

	req, err := f.uc.Create(ctx, f.actor(solicitante), requisition.CreateInput{
		RequestedForType: entity.RequestedForDepartment,
		Purpose:          "impresora dañada, papel urgente",
		Urgency:          entity.UrgencyUrgent,
		Items:            []dto.RequisitionItemRequest{{ItemID: itemPapel, Quantity: 2}},
	})
	require.NoError(t, err)
	_, err = f.uc.Submit(ctx, f.actor(solicitante), req.RequisitionNo)
	require.NoError(t, err)

	first, err := f.uc.Approve(ctx, f.actor(aprobadorL1), req.RequisitionNo)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionPending, first.Status)

	second, err := f.uc.Approve(ctx, f.actor(aprobadorL2), req.RequisitionNo)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionFulfilled, second.Status)
}

// stock insuficiente en un renglón: la aprobación completa se revierte. El
// estado sigue pending, la firma no queda registrada y ningún renglón se
// debita, ni siquiera los que sí tenían existencia.
func TestApprove_StockInsuficienteRevierteTodo(t *testing.T) {
	f := newWorkflowFixture(t)
	f.seedStock(t, itemPapel, 10)
	f.seedStock(t, itemToner, 0)
	req := f.createSubmitted(t,
		dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 4},
		dto.RequisitionItemRequest{ItemID: itemToner, Quantity: 1},
	)

	_, err := f.uc.Approve(context.Background(), f.actor(aprobadorL1), req.RequisitionNo)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, itemToner, shortage.ItemID, "el error debe identificar el renglón corto")

	assert.Equal(t, int64(10), f.stockQty(t, itemPapel), "el renglón con stock tampoco debe debitarse")
	assert.Equal(t, int64(0), f.stockQty(t, itemToner))

	stored, err := f.store.Requisitions().GetByNo(req.RequisitionNo)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionPending, stored.Status)
	assert.Empty(t, stored.ApprovedByL1ID, "la firma se revierte junto con el débito")
	assert.Empty(t, f.notifier.decided)

	// con stock repuesto el mismo Approve procede
	f.seedStock(t, itemToner, 2)
	approved, err := f.uc.Approve(context.Background(), f.actor(aprobadorL1), req.RequisitionNo)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionFulfilled, approved.Status)
	assert.Equal(t, int64(6), f.stockQty(t, itemPapel))
	assert.Equal(t, int64(1), f.stockQty(t, itemToner))
}

func TestReject_GuardaMotivoYNoMueveStock(t *testing.T) {
	f := newWorkflowFixture(t)
	f.seedStock(t, itemPapel, 10)
	req := f.createSubmitted(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 4})

	rejected, err := f.uc.Reject(context.Background(), f.actor(aprobadorL1), req.RequisitionNo, "presupuesto agotado")
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionRejected, rejected.Status)
	assert.Equal(t, "presupuesto agotado", rejected.RejectionReason)
	require.NotNil(t, rejected.DecidedAt)
	assert.Equal(t, int64(10), f.stockQty(t, itemPapel))
	assert.Equal(t, []string{req.RequisitionNo}, f.notifier.decided)

	// una requisición rechazada es terminal
	_, err = f.uc.Approve(context.Background(), f.actor(aprobadorL1), req.RequisitionNo)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReject_SoloElAprobadorDelNivelEnCurso(t *testing.T) {
	f := newWorkflowFixture(t)
	req := f.createSubmitted(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 1})

	_, err := f.uc.Reject(context.Background(), f.actor(solicitante), req.RequisitionNo, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// tras la firma de L1, el rechazo pasa a manos de L2.
func TestReject_SegundoNivel(t *testing.T) {
	f := newWorkflowFixture(t)
	f.requireTwoLevels(t)
	f.seedStock(t, itemPapel, 10)
	req := f.createSubmitted(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 1})
	ctx := context.Background()

	_, err := f.uc.Approve(ctx, f.actor(aprobadorL1), req.RequisitionNo)
	require.NoError(t, err)

	_, err = f.uc.Reject(ctx, f.actor(aprobadorL1), req.RequisitionNo, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	rejected, err := f.uc.Reject(ctx, f.actor(aprobadorL2), req.RequisitionNo, "no procede")
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionRejected, rejected.Status)
	assert.Equal(t, int64(10), f.stockQty(t, itemPapel))
}

func TestCancel_SolicitanteEnDraftOPending(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	draft := f.create(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 1})
	cancelled, err := f.uc.Cancel(ctx, f.actor(solicitante), draft.RequisitionNo)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionCancelled, cancelled.Status)

	pending := f.createSubmitted(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 1})
	_, err = f.uc.Cancel(ctx, f.actor(otroUsuario), pending.RequisitionNo)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	cancelled, err = f.uc.Cancel(ctx, f.actor(solicitante), pending.RequisitionNo)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionCancelled, cancelled.Status)

	// cancelar dos veces no es una transición válida
	_, err = f.uc.Cancel(ctx, f.actor(solicitante), pending.RequisitionNo)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCancel_NoAplicaACumplidas(t *testing.T) {
	f := newWorkflowFixture(t)
	f.seedStock(t, itemPapel, 10)
	req := f.createSubmitted(t, dto.RequisitionItemRequest{ItemID: itemPapel, Quantity: 1})
	ctx := context.Background()

	_, err := f.uc.Approve(ctx, f.actor(aprobadorL1), req.RequisitionNo)
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, f.actor(solicitante), req.RequisitionNo)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(9), f.stockQty(t, itemPapel), "cancelar tarde no devuelve stock")
}

func TestGetByNo_Inexistente(t *testing.T) {
	f := newWorkflowFixture(t)
	_, err := f.uc.GetByNo("REQ-2026-999999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
