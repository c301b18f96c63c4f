// Package notify despacha avisos de correo del workflow de requisiciones.
// El envío es fire-and-forget: corre en una goroutine y un fallo solo se
// registra en el log, nunca afecta la transacción que lo originó.
package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/suministros-api/internal/application/requisition"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
	"github.com/jhoicas/suministros-api/pkg/config"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

var _ requisition.Notifier = (*Mailer)(nil)

// Mailer implementa requisition.Notifier sobre SMTP.
type Mailer struct {
	cfg      config.SMTPConfig
	userRepo repository.UserRepository
	deptRepo repository.DepartmentRepository
	log      *logger.Logger
}

// NewMailer construye el notificador de correo.
func NewMailer(cfg config.SMTPConfig, userRepo repository.UserRepository, deptRepo repository.DepartmentRepository, log *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, userRepo: userRepo, deptRepo: deptRepo, log: log}
}

// RequisitionSubmitted avisa al aprobador de primer nivel del departamento.
func (m *Mailer) RequisitionSubmitted(req *entity.Requisition) {
	go m.send(req, m.approverEmail(req),
		fmt.Sprintf("Requisición %s pendiente de aprobación", req.RequisitionNo),
		fmt.Sprintf("<p>La requisición <b>%s</b> fue enviada y espera su aprobación.</p><p>Motivo: %s</p>",
			req.RequisitionNo, req.Purpose),
	)
}

// RequisitionDecided avisa al solicitante del resultado (cumplida o rechazada).
func (m *Mailer) RequisitionDecided(req *entity.Requisition) {
	var body string
	switch req.Status {
	case entity.RequisitionFulfilled:
		body = fmt.Sprintf("<p>La requisición <b>%s</b> fue aprobada y despachada.</p>", req.RequisitionNo)
	case entity.RequisitionRejected:
		body = fmt.Sprintf("<p>La requisición <b>%s</b> fue rechazada.</p><p>Motivo: %s</p>",
			req.RequisitionNo, req.RejectionReason)
	default:
		return
	}
	go m.send(req, m.requesterEmail(req),
		fmt.Sprintf("Requisición %s: %s", req.RequisitionNo, req.Status), body)
}

func (m *Mailer) approverEmail(req *entity.Requisition) string {
	dept, err := m.deptRepo.GetByID(req.DepartmentID)
	if err != nil || dept == nil {
		return ""
	}
	approverID := dept.ApproverL1ID
	if req.ApprovedByL1ID != "" && dept.ApproverL2ID != "" {
		approverID = dept.ApproverL2ID
	}
	return m.emailOf(approverID)
}

func (m *Mailer) requesterEmail(req *entity.Requisition) string {
	return m.emailOf(req.RequestedByUserID)
}

func (m *Mailer) emailOf(userID string) string {
	user, err := m.userRepo.GetByID(userID)
	if err != nil || user == nil {
		return ""
	}
	return user.Email
}

func (m *Mailer) send(req *entity.Requisition, to, subject, body string) {
	if !m.cfg.Enabled() || to == "" {
		return
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.log.Warn().Err(err).
			Str("requisition_no", req.RequisitionNo).
			Str("to", to).
			Msg("no se pudo enviar el aviso de requisición")
		return
	}
	m.log.Debug().
		Str("requisition_no", req.RequisitionNo).
		Str("to", to).
		Msg("aviso de requisición enviado")
}
