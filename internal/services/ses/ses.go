// Package ses sends retention alert emails via AWS SES.
package ses

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"churn-retention-engine/internal/models"
	"churn-retention-engine/internal/services/decision"
	"churn-retention-engine/internal/utils"
)

// Service handles SES email operations.
type Service struct {
	client    *ses.Client
	fromEmail string
}

// SendEmailResult contains the result of sending an email.
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new SES service.
func NewService(ctx context.Context, fromEmail string) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Service{
		client:    ses.NewFromConfig(cfg),
		fromEmail: fromEmail,
	}, nil
}

// alertTemplate renders the retention alert body.
var alertTemplate = template.Must(template.New("alert").Parse(`
<h2>Retention Alert: {{.Priority}}</h2>
<p>A customer was flagged as <strong>{{.Label}}</strong> with churn probability
<strong>{{printf "%.1f" .Probability}}%</strong> ({{.RiskLevel}} risk).</p>
<table>
  <tr><td>Customer Lifetime Value</td><td>{{.CLV}}</td></tr>
  <tr><td>Revenue at Risk</td><td>{{.RevenueAtRisk}}</td></tr>
  <tr><td>Recommended Offer</td><td>{{.Offer}}</td></tr>
  {{if .Category}}<tr><td>Likely Reason</td><td>{{.Category}}</td></tr>{{end}}
</table>
{{if .Recommendations}}
<h3>Next Actions</h3>
<ul>
{{range .Recommendations}}<li>{{.}}</li>{{end}}
</ul>
{{end}}
`))

type alertData struct {
	Priority        models.Priority
	Label           models.ChurnLabel
	Probability     float64
	RiskLevel       models.RiskLevel
	CLV             string
	RevenueAtRisk   string
	Offer           models.OfferName
	Category        models.ChurnCategory
	Recommendations []string
}

// ShouldAlert reports whether an outcome warrants an email: churned
// customers at P1 or P2 priority.
func ShouldAlert(outcome *models.Outcome) bool {
	if !outcome.Prediction.Churned() {
		return false
	}
	return outcome.Revenue.Priority == models.PriorityP1 || outcome.Revenue.Priority == models.PriorityP2
}

// SendRetentionAlert emails the retention team about a high-priority
// churn-flagged customer.
func (s *Service) SendRetentionAlert(ctx context.Context, to string, outcome *models.Outcome) (*SendEmailResult, error) {
	data := alertData{
		Priority:        outcome.Revenue.Priority,
		Label:           outcome.Prediction.Label,
		Probability:     outcome.Prediction.ChurnProbability * 100,
		RiskLevel:       outcome.Prediction.RiskLevel,
		CLV:             decision.FormatCurrency(outcome.Revenue.CLV),
		RevenueAtRisk:   decision.FormatCurrency(outcome.Revenue.RevenueAtRisk),
		Offer:           outcome.Revenue.RecommendedOffer,
		Category:        outcome.Prediction.Category,
		Recommendations: outcome.Recommendations,
	}

	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to render alert email: %w", err)
	}

	subject := fmt.Sprintf("[%s] Churn risk: %s revenue at risk",
		outcome.Revenue.Priority, data.RevenueAtRisk)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(body.String()),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to send retention alert",
			zap.String("to", to),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send retention alert: %w", err)
	}

	utils.GetLogger().Info("Sent retention alert",
		zap.String("to", to),
		zap.String("priority", string(outcome.Revenue.Priority)),
		zap.String("message_id", aws.ToString(out.MessageId)),
	)

	return &SendEmailResult{
		MessageID: aws.ToString(out.MessageId),
		SentAt:    time.Now().UTC(),
	}, nil
}
