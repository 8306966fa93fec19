// internals/features/competitions/dto/competition_dto.go
package dto

type CreateCompetitionRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpsertEntryRequest records (or corrects) a member's entry in a
// competition. Result and date are optional and may arrive later.
type UpsertEntryRequest struct {
	CompetitionID int64   `json:"competition_id" validate:"required,gt=0"`
	ResultPlace   *string `json:"result_place"`
	EventDate     *string `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
}
