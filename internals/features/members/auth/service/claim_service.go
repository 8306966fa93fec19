// internals/features/members/auth/service/claim_service.go
package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	memberModel "dojoku_backend/internals/features/members/member/model"
	"dojoku_backend/internals/helpers/errs"
)

// ClaimInput is a signup attempt: a JSA number plus the credentials the
// person wants attached to it.
type ClaimInput struct {
	JSANumber string
	Email     string
	Password  string
	Name      string
}

type ClaimResult struct {
	MemberID int64                  `json:"member_id"`
	Role     memberModel.MemberRole `json:"role"`
	Name     string                 `json:"name"`
}

// ClaimService reconciles a signup attempt with existing member rows
// keyed by JSA number: create a fresh account, claim a coach-created
// placeholder, merge legacy duplicates, or reject a conflicting claim.
type ClaimService struct {
	DB *gorm.DB
}

func NewClaimService(db *gorm.DB) *ClaimService {
	return &ClaimService{DB: db}
}

// NormalizeJSA strips all whitespace and uppercases a federation number.
func NormalizeJSA(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}

// Claim runs the whole reconciliation in one transaction; any failure
// after validation leaves the store untouched.
func (s *ClaimService) Claim(ctx context.Context, in ClaimInput) (*ClaimResult, error) {
	jsa := NormalizeJSA(in.JSANumber)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)

	if jsa == "" || email == "" || in.Password == "" {
		return nil, errs.NewValidation("email, password and JSA number are required")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var res *ClaimResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var matches []memberModel.MemberModel
		if err := tx.
			Where("member_jsa_number = ?", jsa).
			Order("member_id ASC").
			Find(&matches).Error; err != nil {
			return err
		}

		now := time.Now()

		if len(matches) == 0 {
			// New person: fresh judoka account, claimed immediately.
			finalName := name
			if finalName == "" {
				finalName = "Member"
			}
			m := memberModel.MemberModel{
				MemberName:         &finalName,
				MemberEmail:        &email,
				MemberPasswordHash: &hash,
				MemberRole:         memberModel.MemberRoleJudoka,
				MemberJSANumber:    &jsa,
				MemberClaimedAt:    &now,
			}
			if err := tx.Create(&m).Error; err != nil {
				if isDuplicateKey(err) {
					return errs.NewConflict("that email is already registered")
				}
				return err
			}
			res = &ClaimResult{MemberID: m.MemberID, Role: m.MemberRole, Name: finalName}
			return nil
		}

		// Oldest row is canonical.
		primary := matches[0]

		if primary.MemberEmail != nil && *primary.MemberEmail != "" && *primary.MemberEmail != email {
			return errs.NewConflict("that JSA number is already linked to another account")
		}

		if len(matches) > 1 {
			dupeIDs := make([]int64, 0, len(matches)-1)
			for _, d := range matches[1:] {
				dupeIDs = append(dupeIDs, d.MemberID)
			}
			if err := mergeMembersIntoPrimary(tx, primary.MemberID, dupeIDs); err != nil {
				return err
			}
		}

		// Claim the primary record: first write wins on email, password
		// hash and claim timestamp; name only fills a blank; the JSA
		// number is reaffirmed idempotently.
		updates := map[string]any{"member_jsa_number": jsa}
		if primary.MemberEmail == nil || *primary.MemberEmail == "" {
			updates["member_email"] = email
		}
		if primary.MemberPasswordHash == nil || *primary.MemberPasswordHash == "" {
			updates["member_password_hash"] = hash
		}
		if primary.MemberClaimedAt == nil {
			updates["member_claimed_at"] = now
		}
		if (primary.MemberName == nil || *primary.MemberName == "") && name != "" {
			updates["member_name"] = name
		}
		if err := tx.Model(&memberModel.MemberModel{}).
			Where("member_id = ?", primary.MemberID).
			Updates(updates).Error; err != nil {
			if isDuplicateKey(err) {
				return errs.NewConflict("that email is already registered")
			}
			return err
		}

		finalName := name
		if primary.MemberName != nil && *primary.MemberName != "" {
			finalName = *primary.MemberName
		}
		if finalName == "" {
			finalName = "Member"
		}
		role := primary.MemberRole
		if role == "" {
			role = memberModel.MemberRoleJudoka
		}
		res = &ClaimResult{MemberID: primary.MemberID, Role: role, Name: finalName}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// mergeMembersIntoPrimary folds duplicate member rows into the primary.
// Attendance rows move only where the primary has none for that session
// (a person cannot be recorded twice in one session); everything else the
// duplicate owns is re-pointed unconditionally; the duplicate row is
// then deleted.
func mergeMembersIntoPrimary(tx *gorm.DB, primaryID int64, dupeIDs []int64) error {
	for _, dupeID := range dupeIDs {
		if err := tx.Exec(`
			INSERT INTO attendance (attendance_session_id, attendance_member_id, attendance_checked_in_at, attendance_method)
			SELECT a.attendance_session_id, ?, a.attendance_checked_in_at, a.attendance_method
			FROM attendance a
			WHERE a.attendance_member_id = ?
			  AND NOT EXISTS (
			    SELECT 1 FROM attendance b
			    WHERE b.attendance_session_id = a.attendance_session_id
			      AND b.attendance_member_id = ?
			  )`, primaryID, dupeID, primaryID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM attendance WHERE attendance_member_id = ?`, dupeID).Error; err != nil {
			return err
		}

		if err := tx.Exec(`UPDATE member_competitions SET entry_member_id = ? WHERE entry_member_id = ?`,
			primaryID, dupeID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`UPDATE fight_uploads SET upload_member_id = ? WHERE upload_member_id = ?`,
			primaryID, dupeID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`UPDATE session_notes SET note_coach_id = ? WHERE note_coach_id = ?`,
			primaryID, dupeID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`UPDATE fight_feedback SET feedback_coach_id = ? WHERE feedback_coach_id = ?`,
			primaryID, dupeID).Error; err != nil {
			return err
		}

		// A duplicate should never have logged in, but if it somehow
		// holds sessions they die with the row.
		if err := tx.Exec(`DELETE FROM refresh_tokens WHERE refresh_token_member_id = ?`, dupeID).Error; err != nil {
			return err
		}

		if err := tx.Exec(`DELETE FROM members WHERE member_id = ?`, dupeID).Error; err != nil {
			return err
		}
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "violates unique constraint") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}
