package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/angkasa-id/angkasa/internal/auth"
	"github.com/angkasa-id/angkasa/internal/config"
	"github.com/angkasa-id/angkasa/internal/db"
	"github.com/angkasa-id/angkasa/internal/docstore"
	"github.com/angkasa-id/angkasa/internal/domain/forum"
	"github.com/angkasa-id/angkasa/internal/domain/inbox"
	"github.com/angkasa-id/angkasa/internal/domain/member"
	"github.com/angkasa-id/angkasa/internal/treestore"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo accounts and feed content for local development.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		return runSeed(ctx, db.New(pool), docstore.New(pool), treestore.New(pool))
	},
}

type seedAccount struct {
	email       string
	name        string
	role        string
	institution string
	bio         string
}

var seedAccounts = []seedAccount{
	{
		email:       "dewi@kampus.ac.id",
		name:        "Dewi Lestari",
		role:        auth.RoleStudent,
		institution: "Universitas Indonesia",
		bio:         "Mahasiswa ilmu komputer, suka ikut lomba UI/UX.",
	},
	{
		email:       "bagus@kampus.ac.id",
		name:        "Bagus Prasetyo",
		role:        auth.RoleStudent,
		institution: "Institut Teknologi Bandung",
		bio:         "Angkatan 2024, cari tim untuk hackathon.",
	},
	{
		email:       "events@beasiswahub.id",
		name:        "BeasiswaHub",
		role:        auth.RoleProvider,
		institution: "BeasiswaHub Indonesia",
		bio:         "Menyebarkan info beasiswa dalam dan luar negeri.",
	},
}

func runSeed(ctx context.Context, q *db.Queries, docs *docstore.Store, tree *treestore.Store) error {
	var providerID string
	var providerName string

	for _, acct := range seedAccounts {
		u, err := seedUser(ctx, q, docs, acct)
		if err != nil {
			return err
		}
		if acct.role == auth.RoleProvider {
			providerID = strconv.FormatInt(u.ID, 10)
			providerName = u.DisplayName
		}

		welcome := inbox.Notification{
			ID:        uuid.NewString(),
			Kind:      inbox.KindSystem,
			Title:     "Selamat datang di Angkasa",
			Body:      "Lengkapi profilmu dan mulai jelajahi feed komunitas.",
			CreatedAt: time.Now(),
		}
		userID := strconv.FormatInt(u.ID, 10)
		if err := tree.Set(ctx, inbox.Path(userID, welcome.ID), welcome.Value()); err != nil {
			return err
		}
	}

	posts := []forum.Post{
		{
			Title:    "Beasiswa LPDP 2027 sudah dibuka",
			Body:     "Pendaftaran tahap 1 dibuka sampai akhir bulan.\n\n- S2 dalam negeri\n- S2 luar negeri\n\nCek persyaratan di situs resmi sebelum mendaftar.",
			Category: forum.CategoryBeasiswa,
			Pinned:   true,
		},
		{
			Title:    "Lomba esai nasional tema energi terbarukan",
			Body:     "Terbuka untuk semua mahasiswa aktif. Batas pengumpulan dua minggu lagi, total hadiah 15 juta rupiah.",
			Category: forum.CategoryLomba,
		},
		{
			Title:    "Webinar persiapan karier untuk fresh graduate",
			Body:     "Sesi gratis bersama praktisi industri, Sabtu depan pukul 10.00 WIB. Link pendaftaran menyusul di kolom balasan.",
			Category: forum.CategoryEvent,
		},
		{
			Title:    "Tips membagi waktu kuliah dan organisasi?",
			Body:     "Semester ini mulai keteteran antara tugas dan kegiatan himpunan. Ada yang punya sistem yang terbukti jalan?",
			Category: forum.CategoryDiskusi,
		},
	}

	now := time.Now()
	for i, p := range posts {
		p.ID = uuid.NewString()
		p.AuthorID = providerID
		p.AuthorName = providerName
		p.CreatedAt = now.Add(-time.Duration(i) * time.Hour)
		if err := docs.SetDocument(ctx, forum.Collection, p.ID, p.Document()); err != nil {
			return err
		}
	}

	slog.Info("seed complete", "accounts", len(seedAccounts), "posts", len(posts))
	return nil
}

// seedUser creates the account and its directory profile, skipping accounts
// that already exist so the command stays rerunnable.
func seedUser(ctx context.Context, q *db.Queries, docs *docstore.Store, acct seedAccount) (db.AuthUser, error) {
	if existing, err := q.GetAuthUserByEmail(ctx, acct.email); err == nil {
		return existing, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return db.AuthUser{}, err
	}

	hash, err := auth.HashPassword("rahasia123")
	if err != nil {
		return db.AuthUser{}, err
	}

	u, err := q.CreateAuthUser(ctx, db.CreateAuthUserParams{
		Email:         acct.email,
		DisplayName:   acct.name,
		PasswordHash:  hash,
		Role:          acct.role,
		EmailVerified: true,
	})
	if err != nil {
		return db.AuthUser{}, fmt.Errorf("seed user %s: %w", acct.email, err)
	}

	profile := member.Member{
		DisplayName: acct.name,
		Email:       acct.email,
		Role:        acct.role,
		Institution: acct.institution,
		Bio:         acct.bio,
		Verified:    true,
		Active:      true,
		JoinedAt:    time.Now(),
	}
	id := strconv.FormatInt(u.ID, 10)
	if err := docs.SetDocument(ctx, member.Collection, id, profile.Document()); err != nil {
		return db.AuthUser{}, err
	}
	return u, nil
}
