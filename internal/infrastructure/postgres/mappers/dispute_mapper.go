package mappers

import (
	"encoding/json"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	var evidence []string
	if model.EvidenceRefs != "" {
		_ = json.Unmarshal([]byte(model.EvidenceRefs), &evidence)
	}
	var distribution map[string]int64
	if model.Distribution != "" {
		_ = json.Unmarshal([]byte(model.Distribution), &distribution)
	}
	return &domain.Dispute{
		ID:              model.ID,
		PoolID:          model.PoolID,
		RaisedByUserID:  model.RaisedByUserID,
		Reason:          model.Reason,
		EvidenceRefs:    evidence,
		Status:          domain.DisputeStatus(model.Status),
		Action:          domain.DisputeAction(model.Action),
		ResolutionNotes: model.ResolutionNotes,
		ResolvedAt:      model.ResolvedAt,
		Distribution:    distribution,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	var evidence string
	if len(dispute.EvidenceRefs) > 0 {
		b, _ := json.Marshal(dispute.EvidenceRefs)
		evidence = string(b)
	}
	var distribution string
	if len(dispute.Distribution) > 0 {
		b, _ := json.Marshal(dispute.Distribution)
		distribution = string(b)
	}
	return &models.DisputeModel{
		ID:              dispute.ID,
		PoolID:          dispute.PoolID,
		RaisedByUserID:  dispute.RaisedByUserID,
		Reason:          dispute.Reason,
		EvidenceRefs:    evidence,
		Status:          string(dispute.Status),
		Action:          string(dispute.Action),
		ResolutionNotes: dispute.ResolutionNotes,
		ResolvedAt:      dispute.ResolvedAt,
		Distribution:    distribution,
		CreatedAt:       dispute.CreatedAt,
		UpdatedAt:       dispute.UpdatedAt,
	}
}
