package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"golang.org/x/sync/errgroup"

	"github.com/angkasa-id/angkasa/internal/alert"
	"github.com/angkasa-id/angkasa/internal/domain/inbox"
	"github.com/angkasa-id/angkasa/internal/domain/member"
	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
	"github.com/angkasa-id/angkasa/internal/http/views"
	"github.com/angkasa-id/angkasa/internal/listview"
)

// HandleAdmin renders the member directory off the live mirror.
func (h *Handlers) HandleAdmin(c *echo.Context) error {
	ctx := c.Request().Context()

	query := strings.TrimSpace(c.QueryParam("q"))
	role := strings.TrimSpace(c.QueryParam("role"))
	if role != "student" && role != "provider" && role != "admin" {
		role = ""
	}
	status := strings.TrimSpace(c.QueryParam("status"))
	if status != member.StatusActive && status != member.StatusSuspended {
		status = ""
	}
	verified := strings.TrimSpace(c.QueryParam("verified"))
	if verified != "yes" && verified != "no" {
		verified = ""
	}

	var facets []listview.Facet
	if role != "" {
		facets = append(facets, listview.Facet{Field: "role", Value: role})
	}
	if status != "" {
		facets = append(facets, listview.Facet{Field: "status", Value: status})
	}
	if verified != "" {
		facets = append(facets, listview.Facet{Field: "verified", Value: verified})
	}
	all := h.Members.Items()
	visible := listview.DeriveVisible(all, query, facets, member.ListFields)

	roleCounts := map[string]int{}
	for _, m := range all {
		roleCounts[m.Role]++
	}

	rows := make([]viewmodels.MemberRowViewData, 0, len(visible))
	for _, m := range visible {
		rows = append(rows, viewmodels.MemberRowViewData{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			Email:       m.Email,
			Role:        m.Role,
			RoleLabel:   views.HumanizeMemberRole(m.Role),
			Institution: m.Institution,
			Verified:    m.Verified,
			Active:      m.Active,
			JoinedAt:    formatTimestamp(m.JoinedAt),
		})
	}

	data := viewmodels.AdminViewData{
		Layout:     h.LayoutData(ctx, c, "Admin"),
		Query:      query,
		Role:       role,
		Status:     status,
		Verified:   verified,
		RoleCounts: roleCounts,
		Members:    rows,
		Total:      len(rows),
		Loading:    h.Members.Loading(),
	}
	return h.RenderComponent(c, views.AdminPage(data))
}

// HandleAdminMemberDeactivate disables an account after confirmation. The
// member profile stays in the directory; the auth record is switched off.
func (h *Handlers) HandleAdminMemberDeactivate(c *echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	memberID := c.Param("id")
	targetID, err := strconv.ParseInt(memberID, 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad member id")
	}
	ownerID := strconv.FormatInt(principal.UserID, 10)
	if targetID == principal.UserID {
		h.Alerts.Notify("Kamu tidak bisa menonaktifkan akunmu sendiri.", alert.KindWarning,
			alert.WithOwner(ownerID))
		return c.Redirect(http.StatusSeeOther, "/admin")
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		_, err := h.Members.PerformGuardedAction(ctx, listview.GuardedAction{
			Name:           "member_deactivate",
			OwnerID:        ownerID,
			ConfirmMessage: "Nonaktifkan anggota ini? Mereka tidak akan bisa masuk lagi.",
			SuccessMessage: "Anggota dinonaktifkan.",
			FailureMessage: "Anggota gagal dinonaktifkan. Coba lagi.",
			Run: func(ctx context.Context) error {
				return h.setMemberActive(ctx, targetID, memberID, false)
			},
		})
		if err != nil {
			h.Logger.Error("member deactivation failed", "member_id", memberID, "error", err)
		}
	}()

	return c.Redirect(http.StatusSeeOther, "/admin")
}

// setMemberActive flips the auth row and the profile document together, so a
// failure cannot leave the directory contradicting the sign-in gate.
func (h *Handlers) setMemberActive(ctx context.Context, targetID int64, memberID string, active bool) error {
	tx, err := h.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := h.Q.WithTx(tx).SetAuthUserActive(ctx, targetID, active); err != nil {
		return err
	}
	err = h.Docs.WithTx(tx).UpdateDocument(ctx, member.Collection, memberID,
		map[string]any{"active": active}, true)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	h.Docs.Refresh(ctx, member.Collection)
	return nil
}

// HandleAdminMemberActivate re-enables a suspended account after
// confirmation.
func (h *Handlers) HandleAdminMemberActivate(c *echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	memberID := c.Param("id")
	targetID, err := strconv.ParseInt(memberID, 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad member id")
	}

	ownerID := strconv.FormatInt(principal.UserID, 10)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		_, err := h.Members.PerformGuardedAction(ctx, listview.GuardedAction{
			Name:           "member_activate",
			OwnerID:        ownerID,
			ConfirmMessage: "Aktifkan kembali anggota ini? Mereka bisa langsung masuk lagi.",
			SuccessMessage: "Anggota diaktifkan kembali.",
			FailureMessage: "Anggota gagal diaktifkan. Coba lagi.",
			Run: func(ctx context.Context) error {
				return h.setMemberActive(ctx, targetID, memberID, true)
			},
		})
		if err != nil {
			h.Logger.Error("member activation failed", "member_id", memberID, "error", err)
		}
	}()

	return c.Redirect(http.StatusSeeOther, "/admin")
}

// HandleAdminMemberDelete removes the account, its profile and its inbox
// after confirmation. The member's posts stay on the feed under the stored
// author name.
func (h *Handlers) HandleAdminMemberDelete(c *echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	memberID := c.Param("id")
	targetID, err := strconv.ParseInt(memberID, 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bad member id")
	}
	ownerID := strconv.FormatInt(principal.UserID, 10)
	if targetID == principal.UserID {
		h.Alerts.Notify("Kamu tidak bisa menghapus akunmu sendiri.", alert.KindWarning,
			alert.WithOwner(ownerID))
		return c.Redirect(http.StatusSeeOther, "/admin")
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		_, err := h.Members.PerformGuardedAction(ctx, listview.GuardedAction{
			Name:           "member_delete",
			OwnerID:        ownerID,
			ConfirmMessage: "Hapus anggota ini beserta profil dan kotak masuknya? Tindakan ini tidak bisa dibatalkan.",
			SuccessMessage: "Anggota dihapus.",
			FailureMessage: "Anggota gagal dihapus. Coba lagi.",
			Run: func(ctx context.Context) error {
				tx, err := h.Pool.Begin(ctx)
				if err != nil {
					return err
				}
				defer tx.Rollback(ctx)

				if err := h.Q.WithTx(tx).DeleteAuthUser(ctx, targetID); err != nil {
					return err
				}
				if err := h.Docs.WithTx(tx).DeleteDocument(ctx, member.Collection, memberID); err != nil {
					return err
				}
				if err := h.Tree.WithTx(tx).Remove(ctx, inbox.UserPath(memberID)); err != nil {
					return err
				}
				if err := tx.Commit(ctx); err != nil {
					return err
				}
				h.Docs.Refresh(ctx, member.Collection)
				h.Tree.Refresh(ctx, inbox.UserPath(memberID))
				return nil
			},
		})
		if err != nil {
			h.Logger.Error("member deletion failed", "member_id", memberID, "error", err)
		}
	}()

	return c.Redirect(http.StatusSeeOther, "/admin")
}

// HandleAdminAnnounce fans an announcement out to every member's inbox.
func (h *Handlers) HandleAdminAnnounce(c *echo.Context) error {
	ctx := c.Request().Context()
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	owner := alert.WithOwner(strconv.FormatInt(principal.UserID, 10))

	title := strings.TrimSpace(c.FormValue("title"))
	body := strings.TrimSpace(c.FormValue("body"))
	if title == "" {
		h.Alerts.Notify("Judul pengumuman wajib diisi.", alert.KindWarning, owner)
		return c.Redirect(http.StatusSeeOther, "/admin")
	}

	now := time.Now()
	var delivered atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, m := range h.Members.Items() {
		g.Go(func() error {
			notification := inbox.Notification{
				ID:        uuid.NewString(),
				UserID:    m.ID,
				Kind:      inbox.KindAnnouncement,
				Title:     title,
				Body:      body,
				CreatedAt: now,
			}
			err := h.Tree.Set(gctx, inbox.Path(m.ID, notification.ID), notification.Value())
			if err != nil {
				h.Logger.Error("announcement delivery failed", "member_id", m.ID, "error", err)
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	h.Alerts.Notify("Pengumuman terkirim ke "+strconv.FormatInt(delivered.Load(), 10)+" anggota.", alert.KindSuccess, owner)
	return c.Redirect(http.StatusSeeOther, "/admin")
}
