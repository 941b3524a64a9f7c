package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"math"
	"math/rand"
	"sort"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
	"github.com/safesight-lab/safesight/pkg/service/cluster"
	"github.com/safesight-lab/safesight/pkg/utils/errutil"
	"github.com/safesight-lab/safesight/pkg/utils/logging"
)

//go:embed prompt/cluster_theme.md
var clusterThemePromptTmpl string

var clusterThemePrompt = template.Must(template.New("cluster_theme").Parse(clusterThemePromptTmpl))

const (
	// DefaultK is the pinned production cluster count
	DefaultK = 4

	embedBatchSize      = 16
	themeSampleSize     = 15
	topOwnersPerCluster = 5
)

// ClusteringUseCase runs the full clustering pipeline: embed the incident
// narratives, partition, generate a theme per cluster, and aggregate the
// corrective actions into the risk matrix.
type ClusteringUseCase struct {
	repo interfaces.Repository
	llm  gollem.LLMClient
}

func NewClusteringUseCase(repo interfaces.Repository, llm gollem.LLMClient) *ClusteringUseCase {
	return &ClusteringUseCase{
		repo: repo,
		llm:  llm,
	}
}

// RunOptions controls one clustering run
type RunOptions struct {
	// K overrides the cluster count. Zero means DefaultK.
	K int
	// SelectK enables silhouette-based selection over the candidate counts
	// instead of the pinned default
	SelectK bool
}

// Run executes the pipeline. Both tables are read up front so schema
// problems surface before any paid embedding or generation call. Theme
// generation failures degrade per cluster; everything else is fatal.
func (uc *ClusteringUseCase) Run(ctx context.Context, opts RunOptions) (*model.ClusteringResult, error) {
	incidents, err := uc.repo.Incident().List(ctx)
	if err != nil {
		return nil, err
	}
	actions, err := uc.repo.Action().List(ctx)
	if err != nil {
		return nil, err
	}
	if len(incidents) == 0 {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "no incidents to cluster")
	}

	texts := make([]string, len(incidents))
	for i, incident := range incidents {
		texts[i] = incident.IncidentText()
	}

	vectors, err := uc.embedBatches(ctx, texts)
	if err != nil {
		return nil, err
	}

	k := opts.K
	if k <= 0 {
		k = DefaultK
	}
	var silhouetteByK map[int]float64
	if opts.SelectK {
		chosen, scores, err := cluster.SelectK(vectors, cluster.DefaultCandidates, cluster.DefaultSeed, cluster.TieEps)
		if err != nil {
			return nil, err
		}
		k = chosen
		silhouetteByK = scores
	}

	labels, err := cluster.Partition(vectors, k, cluster.DefaultSeed)
	if err != nil {
		return nil, err
	}

	assignments := make(map[types.CaseID]int, len(incidents))
	for i, incident := range incidents {
		assignments[incident.CaseID] = labels[i]
	}

	themes := uc.generateThemes(ctx, k, labels, texts)
	matrix, orphaned := buildRiskMatrix(incidents, actions, assignments, k)
	topOwners := topActionOwners(actions, assignments)

	if orphaned > 0 {
		logging.From(ctx).Warn("corrective actions did not match any incident",
			"orphaned", orphaned)
	}

	return &model.ClusteringResult{
		K:               k,
		Assignments:     assignments,
		Themes:          themes,
		Matrix:          matrix,
		TopOwners:       topOwners,
		OrphanedActions: orphaned,
		SilhouetteByK:   silhouetteByK,
		RunAt:           time.Now().UTC(),
	}, nil
}

// embedBatches embeds texts in fixed-size batches, preserving order
func (uc *ClusteringUseCase) embedBatches(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := uc.llm.GenerateEmbedding(ctx, model.EmbeddingDimension, texts[start:end])
		if err != nil {
			return nil, goerr.Wrap(model.ErrServiceUnavailable, "incident embedding failed",
				goerr.V("batch_start", start), goerr.V("cause", err))
		}
		vectors = append(vectors, batch...)
	}
	if len(vectors) != len(texts) {
		return nil, goerr.Wrap(model.ErrServiceUnavailable, "embedding count mismatch",
			goerr.V("want", len(texts)), goerr.V("got", len(vectors)))
	}
	return vectors, nil
}

// generateThemes produces one theme per cluster. A failed generation is
// isolated: the cluster gets a degraded fallback theme and the run continues.
func (uc *ClusteringUseCase) generateThemes(ctx context.Context, k int, labels []int, texts []string) map[int]*model.ClusterTheme {
	themes := make(map[int]*model.ClusterTheme, k)
	for cid := 0; cid < k; cid++ {
		var members []string
		for i, label := range labels {
			if label == cid {
				members = append(members, texts[i])
			}
		}

		theme, err := uc.generateTheme(ctx, sampleTexts(members, themeSampleSize))
		if err != nil {
			wrapped := goerr.Wrap(model.ErrPartialGeneration, "theme generation failed",
				goerr.V("cluster_id", cid), goerr.V("cause", err))
			errutil.Handle(ctx, wrapped, "cluster theme degraded to fallback")
			theme = fallbackTheme(err)
		}
		themes[cid] = theme
	}
	return themes
}

func (uc *ClusteringUseCase) generateTheme(ctx context.Context, texts []string) (*model.ClusterTheme, error) {
	var buf bytes.Buffer
	if err := clusterThemePrompt.Execute(&buf, map[string]any{"Incidents": texts}); err != nil {
		return nil, goerr.Wrap(err, "failed to render theme prompt")
	}

	schema := &gollem.Parameter{
		Title:       "ClusterTheme",
		Description: "Theme of one incident cluster",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"title": {
				Type:        gollem.TypeString,
				Description: "A short, specific title (3-6 words)",
				Required:    true,
			},
			"summary": {
				Type:        gollem.TypeArray,
				Description: "Exactly 3 short bullet points: key risk, common cause, recommended focus area",
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
				Required: true,
			},
		},
	}

	session, err := uc.llm.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create theme session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buf.String()))
	if err != nil {
		return nil, goerr.Wrap(err, "theme generation call failed")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("theme generation returned no text")
	}

	var theme model.ClusterTheme
	if err := json.Unmarshal([]byte(resp.Texts[0]), &theme); err != nil {
		return nil, goerr.Wrap(err, "failed to parse theme JSON", goerr.V("response", resp.Texts[0]))
	}
	return &theme, nil
}

// sampleTexts deterministically picks up to n texts
func sampleTexts(texts []string, n int) []string {
	if len(texts) <= n {
		return texts
	}
	rng := rand.New(rand.NewSource(cluster.DefaultSeed))
	picked := append([]string{}, texts...)
	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:n]
}

func fallbackTheme(err error) *model.ClusterTheme {
	msg := err.Error()
	if len(msg) > 50 {
		msg = msg[:50]
	}
	return &model.ClusterTheme{
		Title:   "Error: " + msg + "...",
		Summary: []string{"Could not generate summary due to an error."},
		Failed:  true,
	}
}

// buildRiskMatrix aggregates incidents and actions per cluster. Actions whose
// case ID matches no incident are counted as orphans and excluded from the
// per-cluster aggregates.
func buildRiskMatrix(incidents []*model.Incident, actions []*model.CorrectiveAction, assignments map[types.CaseID]int, k int) ([]model.RiskMatrixRow, int) {
	type clusterStats struct {
		nCases       int
		highRisk     int
		major        int
		serious      int
		nActions     int
		immediateAct int
	}
	stats := make([]clusterStats, k)

	for _, incident := range incidents {
		cid := assignments[incident.CaseID]
		stats[cid].nCases++
		if incident.RiskLevel == types.RiskLevelHigh {
			stats[cid].highRisk++
		}
		switch incident.Severity {
		case types.SeverityMajor:
			stats[cid].major++
		case types.SeveritySerious:
			stats[cid].serious++
		}
	}

	orphaned := 0
	for _, action := range actions {
		cid, ok := assignments[action.CaseID]
		if !ok {
			orphaned++
			continue
		}
		stats[cid].nActions++
		if action.TimingBucket() == types.TimingImmediate {
			stats[cid].immediateAct++
		}
	}

	matrix := make([]model.RiskMatrixRow, 0, k)
	for cid, s := range stats {
		row := model.RiskMatrixRow{
			ClusterID: cid,
			NCases:    s.nCases,
		}
		if s.nCases > 0 {
			row.HighRiskPct = round1(100 * float64(s.highRisk) / float64(s.nCases))
			// Major and Serious percentages are rounded before summing
			row.HighSeverityPct = round1(100*float64(s.major)/float64(s.nCases)) +
				round1(100*float64(s.serious)/float64(s.nCases))
		}
		if s.nActions > 0 {
			row.ReactivityScore = round1(100 * float64(s.immediateAct) / float64(s.nActions))
		}
		matrix = append(matrix, row)
	}

	sort.SliceStable(matrix, func(i, j int) bool {
		return matrix[i].NCases > matrix[j].NCases
	})
	return matrix, orphaned
}

// topActionOwners counts actions per normalized owner within each cluster and
// keeps the top owners, most actions first.
func topActionOwners(actions []*model.CorrectiveAction, assignments map[types.CaseID]int) map[int][]model.OwnerCount {
	counts := make(map[int]map[string]int)
	for _, action := range actions {
		cid, ok := assignments[action.CaseID]
		if !ok {
			continue
		}
		if counts[cid] == nil {
			counts[cid] = make(map[string]int)
		}
		counts[cid][action.NormalizedOwner()]++
	}

	top := make(map[int][]model.OwnerCount, len(counts))
	for cid, owners := range counts {
		list := make([]model.OwnerCount, 0, len(owners))
		for owner, n := range owners {
			list = append(list, model.OwnerCount{Owner: owner, Actions: n})
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].Actions != list[j].Actions {
				return list[i].Actions > list[j].Actions
			}
			return list[i].Owner < list[j].Owner
		})
		if len(list) > topOwnersPerCluster {
			list = list[:topOwnersPerCluster]
		}
		top[cid] = list
	}
	return top
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
