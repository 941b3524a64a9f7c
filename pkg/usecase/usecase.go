// Package usecase implements the application logic of the safety dashboard:
// question answering over the incident corpus, clustering with theme
// generation, severity prediction, and incident report intake.
package usecase

import (
	"github.com/m-mizutani/gollem"
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
	"github.com/safesight-lab/safesight/pkg/domain/model"
)

type UseCases struct {
	repo        interfaces.Repository
	llm         gollem.LLMClient
	index       interfaces.VectorIndex
	severity    interfaces.SeverityModel
	formOptions *model.FormOptions

	QA         *QAUseCase
	Clustering *ClusteringUseCase
	Severity   *SeverityUseCase
	Report     *ReportUseCase
	Sessions   *SessionRegistry
}

type Option func(*UseCases)

func WithLLM(llm gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llm = llm
	}
}

func WithIndex(index interfaces.VectorIndex) Option {
	return func(uc *UseCases) {
		uc.index = index
	}
}

func WithSeverityModel(m interfaces.SeverityModel) Option {
	return func(uc *UseCases) {
		uc.severity = m
	}
}

func WithFormOptions(opts *model.FormOptions) Option {
	return func(uc *UseCases) {
		uc.formOptions = opts
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:        repo,
		formOptions: model.DefaultFormOptions(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.QA = NewQAUseCase(uc.llm, uc.index)
	uc.Clustering = NewClusteringUseCase(repo, uc.llm)
	uc.Severity = NewSeverityUseCase(uc.llm, uc.severity)
	uc.Report = NewReportUseCase(repo, uc.llm, uc.index, uc.severity, uc.formOptions)
	uc.Sessions = NewSessionRegistry()

	return uc
}

// FormOptions returns the option lists served to the report form
func (uc *UseCases) FormOptions() *model.FormOptions {
	return uc.formOptions
}
