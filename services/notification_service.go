// services/notification_service.go
package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"oficinapro-backend/models"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

const (
	NotificationOrderReady       = "order_ready"
	NotificationApprovalReminder = "approval_reminder"
)

// NotificationService sends WhatsApp/SMS messages to customers and records
// every attempt in the notification log. Send failures are logged, never
// propagated into the request that triggered them.
type NotificationService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &NotificationService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// StartScheduler runs the daily approval-reminder pass at 9 AM.
func (s *NotificationService) StartScheduler() {
	c := cron.New()

	c.AddFunc("0 9 * * *", func() {
		s.SendApprovalReminders()
	})

	c.Start()
	log.Info("notification scheduler started")
}

// OrderCompleted messages the customer that the vehicle is ready for pickup.
func (s *NotificationService) OrderCompleted(order *models.ServiceOrder) error {
	var customer models.Customer
	if err := s.db.Where("tenant_id = ? AND id = ?", order.TenantID, order.CustomerID).
		First(&customer).Error; err != nil {
		return err
	}

	var vehicle models.Vehicle
	if err := s.db.Where("tenant_id = ? AND id = ?", order.TenantID, order.VehicleID).
		First(&vehicle).Error; err != nil {
		return err
	}

	message := fmt.Sprintf(
		"Olá %s, o serviço do seu veículo %s %s (placa %s) foi concluído e ele está pronto para retirada. OS nº %d.",
		customer.Name, vehicle.Brand, vehicle.Model, vehicle.Plate, order.Number,
	)

	s.send(order, &customer, NotificationOrderReady, message)
	return nil
}

// SendApprovalReminders nudges customers whose orders have been waiting for
// approval for more than two days.
func (s *NotificationService) SendApprovalReminders() {
	log.Info("starting approval reminder processing")

	cutoff := time.Now().AddDate(0, 0, -2)

	var orders []models.ServiceOrder
	if err := s.db.Where("status = ? AND updated_at < ?", models.StatusWaitingApproval, cutoff).
		Find(&orders).Error; err != nil {
		log.WithError(err).Error("failed to fetch waiting orders")
		return
	}

	for _, order := range orders {
		var customer models.Customer
		if err := s.db.Where("tenant_id = ? AND id = ?", order.TenantID, order.CustomerID).
			First(&customer).Error; err != nil {
			log.WithError(err).WithField("order", order.ID).Warn("customer lookup failed")
			continue
		}

		message := fmt.Sprintf(
			"Olá %s, o orçamento da OS nº %d está aguardando sua aprovação. Entre em contato com a oficina para darmos andamento.",
			customer.Name, order.Number,
		)
		s.send(&order, &customer, NotificationApprovalReminder, message)
	}

	log.Info("approval reminder processing completed")
}

func (s *NotificationService) send(order *models.ServiceOrder, customer *models.Customer, notifType, message string) {
	phone := customer.Whatsapp
	if phone == "" {
		phone = customer.Phone
	}

	// WhatsApp when the number is E.164, SMS otherwise.
	channel := "sms"
	to := phone
	if strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.WithError(err).WithField("phone", phone).Warn("failed to send message")
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.WithFields(log.Fields{"phone": phone, "sid": *resp.Sid}).Info("message sent")
	} else {
		log.WithField("phone", phone).Info("message sent, no SID returned")
	}

	notification := models.NotificationLog{
		TenantID:       order.TenantID,
		CustomerID:     customer.ID,
		ServiceOrderID: order.ID,
		Type:           notifType,
		Channel:        channel,
		Message:        message,
		Status:         status,
		ErrorMessage:   errorMsg,
		SentAt:         time.Now(),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		log.WithError(err).WithField("customer", customer.ID).Warn("failed to log notification")
	}
}
