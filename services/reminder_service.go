// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"crml-backend/models"
	"crml-backend/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var remindersSent = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reminders_sent_total",
		Help: "Appointment reminders by channel and delivery status.",
	},
	[]string{"channel", "status"},
)

// Sender delivers a reminder message and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, channel, to, body string) (string, error)
}

type ReminderService struct {
	db       *gorm.DB
	sender   Sender
	lead     time.Duration
	schedule string
	log      *slog.Logger
	now      func() time.Time

	cron *cron.Cron
}

func NewReminderService(db *gorm.DB, sender Sender, schedule string, lead time.Duration, log *slog.Logger) *ReminderService {
	return &ReminderService{
		db:       db,
		sender:   sender,
		lead:     lead,
		schedule: schedule,
		log:      log,
		now:      time.Now,
	}
}

// Start registers the reminder job on the configured cron schedule.
func (s *ReminderService) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("schedule reminders %q: %w", s.schedule, err)
	}
	c.Start()
	s.cron = c
	s.log.Info("reminder scheduler started", "schedule", s.schedule, "lead", s.lead.String())
	return nil
}

// Stop waits for a running job to finish.
func (s *ReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func (s *ReminderService) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sent, err := s.SendUpcomingReminders(ctx)
	if err != nil {
		s.log.Error("reminder run failed", "error", err)
		return
	}
	s.log.Info("reminder run completed", "sent", sent)
}

// SendUpcomingReminders messages every customer with an appointment starting
// within the lead window that has not been reminded yet. It returns the
// number of reminders delivered.
func (s *ReminderService) SendUpcomingReminders(ctx context.Context) (int, error) {
	now := s.now()

	var appointments []models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Where(`"start" > ? AND "start" <= ?`, now, now.Add(s.lead)).
		Where(`NOT EXISTS (SELECT 1 FROM reminder_logs WHERE reminder_logs.appointment_id = appointments.id AND reminder_logs.status = ?)`,
			models.ReminderStatusSent).
		Order(`"start"`).
		Find(&appointments).Error
	if err != nil {
		return 0, fmt.Errorf("load upcoming appointments: %w", err)
	}

	sent := 0
	for _, appointment := range appointments {
		if s.remind(ctx, appointment) {
			sent++
		}
	}
	return sent, nil
}

func (s *ReminderService) remind(ctx context.Context, appointment models.Appointment) bool {
	customer := appointment.Customer
	if customer == nil {
		return false
	}
	phone, ok := utils.NormalizePhone(customer.Phone)
	if !ok {
		s.log.Warn("skipping reminder, phone not dialable",
			"appointment_id", appointment.ID, "customer_id", customer.ID)
		return false
	}

	// WhatsApp when the customer has it, SMS otherwise
	channel := models.ChannelSMS
	to := phone
	if customer.HasWA {
		channel = models.ChannelWhatsApp
		to = "whatsapp:" + phone
	}

	message := fmt.Sprintf("Hi %s, a reminder of your %s appointment on %s.",
		customer.Name, appointment.Kind, appointment.Start.Format("Mon 02 Jan 15:04"))

	status := models.ReminderStatusSent
	errorMsg := ""
	sid, err := s.sender.Send(ctx, channel, to, message)
	if err != nil {
		s.log.Error("failed to send reminder", "appointment_id", appointment.ID, "channel", channel, "error", err)
		status = models.ReminderStatusFailed
		errorMsg = err.Error()
	} else {
		s.log.Info("reminder sent", "appointment_id", appointment.ID, "channel", channel, "sid", sid)
	}
	remindersSent.WithLabelValues(channel, status).Inc()

	reminderLog := models.ReminderLog{
		AppointmentID: appointment.ID,
		CustomerID:    customer.ID,
		Channel:       channel,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		SentAt:        s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&reminderLog).Error; err != nil {
		s.log.Error("failed to log reminder", "appointment_id", appointment.ID, "error", err)
	}
	return status == models.ReminderStatusSent
}
