package service

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/crypto/bcrypt"

	"github.com/jmoiron/sqlx"

	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/repository"
	"github.com/paltattoo/paltattoo-backend/internal/repository/common"
)

// SeedService genera datos de demostración para ambientes de desarrollo.
type SeedService struct {
	db            *sqlx.DB
	users         *repository.UserRepository
	offers        *repository.OfferRepository
	proposals     *repository.ProposalRepository
	subscriptions *repository.SubscriptionRepository
}

// NewSeedService crea el servicio de seed.
func NewSeedService(db *sqlx.DB, users *repository.UserRepository, offers *repository.OfferRepository, proposals *repository.ProposalRepository, subscriptions *repository.SubscriptionRepository) *SeedService {
	return &SeedService{
		db:            db,
		users:         users,
		offers:        offers,
		proposals:     proposals,
		subscriptions: subscriptions,
	}
}

var (
	seedFirstNames = []string{
		"Camila", "Valentina", "Sofía", "Isidora", "Antonia", "Fernanda",
		"Matías", "Benjamín", "Vicente", "Joaquín", "Diego", "Cristóbal",
	}
	seedLastNames = []string{
		"González", "Muñoz", "Rojas", "Díaz", "Pérez", "Soto",
		"Contreras", "Silva", "Martínez", "Sepúlveda", "Morales", "Castillo",
	}
	seedComunas = []string{
		"Santiago", "Providencia", "Ñuñoa", "Maipú", "La Florida",
		"Valparaíso", "Viña del Mar", "Concepción", "Temuco", "Antofagasta",
	}
	seedStyles = []string{
		"realismo", "blackwork", "tradicional", "neotradicional",
		"puntillismo", "acuarela", "japonés", "fineline", "geométrico",
	}
	seedBodyParts = []string{
		"brazo", "antebrazo", "espalda", "pierna", "hombro", "pecho", "muñeca",
	}
	seedOfferTitles = []string{
		"Manga completa estilo japonés",
		"Retrato realista de mascota",
		"Diseño geométrico en antebrazo",
		"Flor fineline en muñeca",
		"Cover de tatuaje antiguo",
		"Frase con lettering en costilla",
	}
)

// SeedData genera usuarios, ofertas y propuestas de demostración.
func (s *SeedService) SeedData(ctx context.Context, numUsers, numOffers int) error {
	clients, artists, err := s.generateUsers(ctx, numUsers)
	if err != nil {
		return fmt.Errorf("seed service: users %w", err)
	}

	offers, err := s.generateOffers(ctx, clients, numOffers)
	if err != nil {
		return fmt.Errorf("seed service: offers %w", err)
	}

	if err := s.generateProposals(ctx, offers, artists); err != nil {
		return fmt.Errorf("seed service: proposals %w", err)
	}

	return nil
}

func (s *SeedService) generateUsers(ctx context.Context, count int) ([]*models.User, []*models.User, error) {
	passwordHash, _ := bcrypt.GenerateFromPassword([]byte("Paltattoo123"), bcrypt.DefaultCost)

	var clients, artists []*models.User
	for i := 0; i < count; i++ {
		role := models.RoleArtist
		if i%3 == 0 {
			// Un tercio clientes, dos tercios tatuadores.
			role = models.RoleClient
		}

		firstName := seedFirstNames[rand.Intn(len(seedFirstNames))]
		lastName := seedLastNames[rand.Intn(len(seedLastNames))]

		user := &models.User{
			Email:        fmt.Sprintf("%s.%s.%d@demo.paltattoo.cl", firstName, lastName, rand.Intn(100000)),
			PasswordHash: string(passwordHash),
			Role:         role,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, nil, err
		}

		comuna := seedComunas[rand.Intn(len(seedComunas))]
		profile := &models.Profile{
			UserID:    user.ID,
			FirstName: firstName,
			LastName:  lastName,
			Comuna:    &comuna,
		}
		if role == models.RoleArtist {
			styles := []string{
				seedStyles[rand.Intn(len(seedStyles))],
				seedStyles[rand.Intn(len(seedStyles))],
			}
			profile.Styles = models.StringSlice(styles)
			studio := fmt.Sprintf("Estudio %s", lastName)
			profile.StudioName = &studio
		}
		if err := s.users.UpsertProfile(ctx, profile); err != nil {
			return nil, nil, err
		}

		if role == models.RoleArtist {
			tiers := []string{models.TierFree, models.TierFree, models.TierPremium, models.TierPro}
			subscription := &models.Subscription{
				ArtistID: user.ID,
				Tier:     tiers[rand.Intn(len(tiers))],
				IsActive: true,
			}
			if err := s.subscriptions.Upsert(ctx, subscription); err != nil {
				return nil, nil, err
			}
			artists = append(artists, user)
		} else {
			clients = append(clients, user)
		}
	}

	return clients, artists, nil
}

func (s *SeedService) generateOffers(ctx context.Context, clients []*models.User, count int) ([]*models.Offer, error) {
	if len(clients) == 0 {
		return nil, nil
	}

	var offers []*models.Offer
	for i := 0; i < count; i++ {
		client := clients[rand.Intn(len(clients))]
		budgetMin := float64(50000 + rand.Intn(10)*10000)
		budgetMax := budgetMin + float64(50000+rand.Intn(10)*20000)

		offer := &models.Offer{
			ClientID:    client.ID,
			Title:       seedOfferTitles[rand.Intn(len(seedOfferTitles))],
			Description: "Busco tatuador con experiencia en el estilo, referencias disponibles por interno.",
			BudgetMin:   &budgetMin,
			BudgetMax:   &budgetMax,
			BodyPart:    seedBodyParts[rand.Intn(len(seedBodyParts))],
			Style:       seedStyles[rand.Intn(len(seedStyles))],
			Status:      models.OfferStatusOpen,
		}
		if err := s.offers.Create(ctx, offer); err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}

	return offers, nil
}

// generateProposals inserta propuestas por lotes dentro de una transacción.
func (s *SeedService) generateProposals(ctx context.Context, offers []*models.Offer, artists []*models.User) error {
	if len(offers) == 0 || len(artists) == 0 {
		return nil
	}

	return common.WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		inserter := common.NewBatchInserter(tx, `
			INSERT INTO proposals (offer_id, artist_id, message, proposed_price, estimated_duration, status)
		`, 6, 50)

		for _, offer := range offers {
			// Cada oferta recibe hasta 3 propuestas de tatuadores distintos.
			perm := rand.Perm(len(artists))
			n := rand.Intn(3) + 1
			if n > len(artists) {
				n = len(artists)
			}
			for _, idx := range perm[:n] {
				artist := artists[idx]
				if artist.ID == offer.ClientID {
					continue
				}
				price := float64(60000 + rand.Intn(20)*15000)
				if err := inserter.Add(ctx,
					offer.ID,
					artist.ID,
					"Me interesa el proyecto, tengo trabajos similares en mi portafolio.",
					price,
					rand.Intn(10)+1,
					models.ProposalStatusPending,
				); err != nil {
					return err
				}
			}
		}

		return inserter.Flush(ctx)
	})
}
