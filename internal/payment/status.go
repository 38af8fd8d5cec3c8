package payment

import (
	srmodel "github.com/raccordement/raccordement-service/internal/core/datamodel/servicerequest"
	"github.com/raccordement/raccordement-service/internal/gateway"
)

// MapGatewayStatus derives the service-request status from a gateway intent
// status. The local status is a pure function of the latest gateway
// observation; every reconciliation overwrites it, stale or not.
func MapGatewayStatus(gatewayStatus string) string {
	switch gatewayStatus {
	case gateway.StatusSucceeded:
		return srmodel.StatusPaid
	case gateway.StatusRequiresAction:
		return srmodel.StatusPendingAuthentication
	default:
		return srmodel.StatusPaymentProcessing
	}
}
