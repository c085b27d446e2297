package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"bookreview/internal/author"
	"bookreview/internal/book"
	"bookreview/internal/entity"
	"bookreview/internal/logging"
	"bookreview/internal/review"
	"bookreview/internal/user"

	"github.com/spf13/cobra"
)

const demoPassword = "Demo-reader1!"

var (
	firstNames    = []string{"Ada", "Chinua", "Elena", "Haruki", "Isabel", "Jorge", "Kazuo", "Leila", "Milan", "Olga"}
	lastNames     = []string{"Achebe", "Borges", "Ferrante", "Ishiguro", "Kundera", "Murakami", "Allende", "Slimani", "Tokarczuk", "Lovelace"}
	nationalities = []string{"Nigerian", "Argentine", "Italian", "British", "Czech", "Japanese", "Chilean", "French", "Polish"}
	adjectives    = []string{"Silent", "Broken", "Golden", "Hidden", "Last", "Distant", "Burning", "Quiet", "Northern", "Forgotten"}
	nouns         = []string{"River", "Garden", "Harbor", "Archive", "Season", "Mirror", "Orchard", "Voyage", "Lantern", "Kingdom"}
	genres        = []string{"Fiction", "Science Fiction", "History", "Mystery", "Biography", "Philosophy", "Poetry", "Fantasy"}
	reviewLines   = []string{
		"Could not put it down.",
		"Slow start, strong finish.",
		"Beautiful prose but the plot wanders.",
		"Not for me.",
		"One of the best books I read this year.",
		"Characters felt flat.",
	}
)

type demoAuthor struct {
	Name        string
	Nationality string
	BirthDate   time.Time
	Books       []demoBook
}

type demoBook struct {
	Title    string
	Genre    string
	Released time.Time
	// Ratings holds one entry per reviewer; 0 means that reviewer skips
	// the book.
	Ratings []int
}

// buildDemoPlan lays out the demo catalog. The first book is rated 5 by
// every reviewer so the home page has a recommendation once there are
// enough reviewers.
func buildDemoPlan(rng *rand.Rand, authors, booksPerAuthor, reviewers int) []demoAuthor {
	seen := make(map[string]bool)
	plan := make([]demoAuthor, 0, authors)

	for i := range authors {
		a := demoAuthor{
			Name:        fmt.Sprintf("%s %s", firstNames[i%len(firstNames)], lastNames[(i/len(firstNames)+i)%len(lastNames)]),
			Nationality: nationalities[rng.IntN(len(nationalities))],
			BirthDate:   time.Date(1920+rng.IntN(70), time.Month(1+rng.IntN(12)), 1+rng.IntN(28), 0, 0, 0, 0, time.UTC),
		}
		for range booksPerAuthor {
			title := fmt.Sprintf("The %s %s", adjectives[rng.IntN(len(adjectives))], nouns[rng.IntN(len(nouns))])
			for n := 2; seen[title]; n++ {
				title = fmt.Sprintf("The %s %s %d", adjectives[rng.IntN(len(adjectives))], nouns[rng.IntN(len(nouns))], n)
			}
			seen[title] = true

			b := demoBook{
				Title:    title,
				Genre:    genres[rng.IntN(len(genres))],
				Released: time.Date(1950+rng.IntN(75), time.Month(1+rng.IntN(12)), 1+rng.IntN(28), 0, 0, 0, 0, time.UTC),
				Ratings:  make([]int, reviewers),
			}
			for r := range b.Ratings {
				if len(plan) == 0 && len(a.Books) == 0 {
					b.Ratings[r] = entity.MaxRating
				} else if rng.IntN(2) == 0 {
					b.Ratings[r] = entity.MinRating + rng.IntN(entity.MaxRating)
				}
			}
			a.Books = append(a.Books, b)
		}
		plan = append(plan, a)
	}
	return plan
}

func demoCommand() *cobra.Command {
	var (
		authors        int
		booksPerAuthor int
		reviewers      int
		seed           uint64
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "fill the catalog with generated authors, books and reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if authors < 1 || booksPerAuthor < 1 || reviewers < 0 {
				return errors.New("--authors and --books must be positive, --reviewers must not be negative")
			}
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			rng := rand.New(rand.NewPCG(seed, seed))
			return runDemo(cmd.Context(), e, buildDemoPlan(rng, authors, booksPerAuthor, reviewers))
		},
	}
	cmd.Flags().IntVar(&authors, "authors", 8, "number of authors")
	cmd.Flags().IntVar(&booksPerAuthor, "books", 3, "books per author")
	cmd.Flags().IntVar(&reviewers, "reviewers", 12, "number of reviewer accounts")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	return cmd
}

func runDemo(ctx context.Context, e *env, plan []demoAuthor) error {
	userRepo := user.NewPostgresRepo(e.pool, e.cfg.DBTimeout)
	authorRepo := author.NewPostgresRepo(e.pool, e.cfg.DBTimeout)
	bookRepo := book.NewPostgresRepo(e.pool, e.cfg.DBTimeout)
	reviewRepo := review.NewPostgresRepo(e.pool, e.cfg.DBTimeout)

	users := user.NewService(userRepo)
	authors := author.NewService(authorRepo, bookRepo)
	books := book.NewService(bookRepo, reviewRepo)
	reviews := review.NewService(reviewRepo, books, authors, nil)

	reviewerCount := 0
	if len(plan) > 0 && len(plan[0].Books) > 0 {
		reviewerCount = len(plan[0].Books[0].Ratings)
	}
	reviewerIDs := make([]string, reviewerCount)
	for i := range reviewerIDs {
		u, err := demoReviewer(ctx, users, i+1)
		if err != nil {
			return err
		}
		reviewerIDs[i] = u.ID
	}

	var bookCount, reviewCount int
	for _, pa := range plan {
		birth := pa.BirthDate
		a := &entity.Author{Name: pa.Name, Nationality: pa.Nationality, BirthDate: &birth}
		if err := authors.Create(ctx, a); err != nil {
			return fmt.Errorf("create author %q: %w", pa.Name, err)
		}

		for _, pb := range pa.Books {
			released := pb.Released
			b := &entity.Book{Title: pb.Title, Genre: pb.Genre, ReleaseDate: &released, AuthorID: a.ID}
			if err := books.Create(ctx, b); err != nil {
				return fmt.Errorf("create book %q: %w", pb.Title, err)
			}
			bookCount++

			for i, rating := range pb.Ratings {
				if rating == 0 {
					continue
				}
				_, err := reviews.AddReview(ctx, review.AddInput{
					BookID:  b.ID,
					UserID:  reviewerIDs[i],
					Rating:  rating,
					Content: reviewLines[(i+rating)%len(reviewLines)],
				})
				if err != nil {
					return fmt.Errorf("review %q: %w", pb.Title, err)
				}
				reviewCount++
			}
		}
	}

	logging.Info().
		Int("authors", len(plan)).
		Int("books", bookCount).
		Int("reviews", reviewCount).
		Int("reviewers", len(reviewerIDs)).
		Msg("demo data created")
	return nil
}

// demoReviewer returns reader NN, creating it on first use.
func demoReviewer(ctx context.Context, users *user.Service, n int) (entity.User, error) {
	username := fmt.Sprintf("reader%02d", n)
	u, err := users.Register(ctx, user.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: demoPassword,
	})
	if errors.Is(err, user.ErrUsernameTaken) {
		return users.GetByUsername(ctx, username)
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("create %s: %w", username, err)
	}
	return u, nil
}
