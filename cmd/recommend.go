package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chrisdamba/fooder/internal/logging"
	"github.com/chrisdamba/fooder/internal/output"
	"github.com/chrisdamba/fooder/internal/session"
	"github.com/spf13/cobra"
)

var (
	recommendUser  string
	recommendFlags constraintFlags
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Start an interactive recommendation session",
	Long: `recommend shows a list of restaurants, asks which one you went to and
whether you liked it, and uses the answer to pick the next list. Without a
previous visit the list comes from --category/--price/--max-distance, or is
random; after a visit it holds the restaurants most similar to it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		constraints, err := recommendFlags.resolve(cmd, cfg)
		if err != nil {
			return err
		}
		g, err := loadGraph(ctx, cfg, recommendFlags.loc.resolve(cmd, cfg))
		if err != nil {
			return err
		}

		dest, err := output.New(ctx, cfg)
		if err != nil {
			return err
		}
		log := logging.With("session")
		defer func() {
			if err := dest.Close(); err != nil {
				log.Error().Err(err).Msg("error closing output")
			}
		}()

		reg := session.NewRegistry(g, session.Options{
			Size:      cfg.RecommendationSize,
			Publisher: dest,
			Logger:    &log,
		})
		return runSession(cmd.InOrStdin(), cmd.OutOrStdout(), reg, recommendUser, session.Query{Constraints: constraints})
	},
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendUser, "user", "u", "guest", "user name")
	recommendFlags.register(recommendCmd)
	rootCmd.AddCommand(recommendCmd)
}

// runSession drives the terminal dialogue until the user quits or input ends.
func runSession(in io.Reader, out io.Writer, reg *session.Registry, user string, q session.Query) error {
	scanner := bufio.NewScanner(in)
	s, _ := reg.Get(user)

	for {
		recs, err := s.Recommend(q)
		if err != nil {
			return err
		}
		printRecommendations(out, s, recs)

		fmt.Fprintf(out, "Pick a restaurant [1-%d], (r)efresh, (u)ser NAME, (q)uit: ", len(recs))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "q":
			return nil
		case line == "r" || line == "":
			continue
		case strings.HasPrefix(line, "u "):
			s, _ = reg.Get(strings.TrimSpace(line[2:]))
			continue
		}

		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(recs) {
			fmt.Fprintf(out, "Invalid choice %q.\n", line)
			continue
		}
		name := recs[n-1].Name
		if err := s.Accept(name); err != nil {
			return err
		}

		fmt.Fprintf(out, "Enjoy %s! Were you satisfied? [y/n]: ", name)
		if !scanner.Scan() {
			return scanner.Err()
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		score, err := s.Feedback(strings.HasPrefix(answer, "y"))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s is now rated %.1f.\n", name, score)
	}
}

func printRecommendations(out io.Writer, s *session.Session, recs []session.Recommendation) {
	if anchor, ok := s.LastVisited(); ok {
		fmt.Fprintf(out, "\nBecause %s liked %s:\n", s.User, anchor)
	} else {
		fmt.Fprintf(out, "\nSuggestions for %s:\n", s.User)
	}
	if len(recs) == 0 {
		fmt.Fprintln(out, "  No restaurants left to recommend.")
		return
	}
	for i, r := range recs {
		fmt.Fprintf(out, "%2d. %-40s %-5s %-12s review %.1f  %s\n",
			i+1, r.Name, r.PriceTier, r.Category, r.ReviewScore, r.Address)
	}
}
