package kaltura

import "context"

// Audit trail actions of interest.
const (
	AuditActionContentUpdated  = "CONTENT_UPDATED"
	AuditActionFileSyncCreated = "FILE_SYNC_CREATED"
)

// ListAuditTrail walks the audit records matching filter. Audit logging
// must be enabled on the account or the list comes back empty.
func (c *Client) ListAuditTrail(ctx context.Context, filter AuditTrailFilter) ([]AuditTrail, error) {
	return listAll[AuditTrail](ctx, c, "audit_audittrail", filter)
}
