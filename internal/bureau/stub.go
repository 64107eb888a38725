// internal/bureau/stub.go
package bureau

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"algolend-workers/internal/models"
)

// StubClient produces deterministic reports derived from the identity
// number. The same identity always yields the same report, which keeps
// local process runs and end-to-end tests reproducible without a bureau
// account.
type StubClient struct{}

// NewStubClient builds the deterministic stub.
func NewStubClient() *StubClient {
	return &StubClient{}
}

func (s *StubClient) FetchReport(_ context.Context, identityNumber string) (*models.BureauReport, error) {
	sum := sha256.Sum256([]byte(identityNumber))
	seed := binary.BigEndian.Uint64(sum[:8])

	score := 300 + float64(seed%551)          // [300, 850]
	limits := 5000 + float64((seed>>8)%95001) // [5000, 100000]
	balance := limits * float64((seed>>16)%100) / 100
	installment := 500 + float64((seed>>24)%14501)

	adverse := 0
	if score < 520 {
		adverse = int((seed >> 32) % 3)
	}

	return &models.BureauReport{
		IdentityNumber: identityNumber,
		CreditScore:    score,
		Exposure: models.AccountExposure{
			TotalBalance:            balance + installment*12,
			TotalLimits:             limits * 1.5,
			RevolvingBalance:        balance,
			RevolvingLimits:         limits,
			TotalMonthlyInstallment: installment,
		},
		AdverseCount: adverse,
		Provider:     "stub",
		ReportDate:   time.Now().UTC().Format("2006-01-02"),
	}, nil
}
