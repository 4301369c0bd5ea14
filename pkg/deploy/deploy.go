// Package deploy sequences a deployment run: load descriptors, obtain
// a template per descriptor, instantiate it through the secrets
// provider, and persist the resulting configuration. Descriptors are
// processed sequentially and independently; the first failure aborts
// the run without rolling back previously completed descriptors.
package deploy

import (
	"time"

	"github.com/confseed/confseed/pkg/config"
	"github.com/confseed/confseed/pkg/descriptor"
	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/handler"
	"github.com/confseed/confseed/pkg/logging"
	"github.com/confseed/confseed/pkg/provider"
)

// State tracks a descriptor's progress through the deployment steps.
type State string

const (
	StateLoaded        State = "LOADED"
	StateTemplateReady State = "TEMPLATE_READY"
	StateInstantiated  State = "INSTANTIATED"
	StatePersisted     State = "PERSISTED"
	StateFailed        State = "FAILED"
)

// Options configures a deployment run.
type Options struct {
	// Loader supplies the deployment descriptors.
	Loader descriptor.Loader

	// Provider resolves placeholder keywords during instantiation.
	Provider provider.Provider

	// Settings carries the process-wide engine constants.
	Settings *config.Settings

	// DryRun suppresses all writes: neither templates nor
	// configurations are persisted.
	DryRun bool
}

// Deployment is the per-descriptor outcome of a run.
type Deployment struct {
	ConfigID string
	Kind     string
	State    State

	// Config holds the instantiated configuration text. In dry-run
	// mode this is the only place the result exists.
	Config string

	TemplatizeReport  *handler.TemplatizeReport
	InstantiateReport *handler.InstantiateReport
}

// Result collects the outcomes of a deployment run.
type Result struct {
	Deployments []Deployment
	DryRun      bool
}

// Deploy runs the deployment for every descriptor the loader yields.
// On failure the returned Result still carries the outcomes of the
// descriptors processed so far, including the failed one.
func Deploy(opts Options) (*Result, error) {
	logger := logging.GetLogger("deploy")
	defer logging.LogDuration(time.Now(), "deploy")

	if opts.Loader == nil {
		return nil, errors.New(errors.ErrInvalidInput, "deploy requires a descriptor loader")
	}
	if opts.Provider == nil {
		return nil, errors.New(errors.ErrInvalidInput, "deploy requires a secrets provider")
	}
	if opts.Settings == nil {
		return nil, errors.New(errors.ErrInvalidInput, "deploy requires settings")
	}

	descs, err := opts.Loader.Load()
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("descriptors", len(descs)).
		Bool("dryRun", opts.DryRun).
		Msg("Starting deployment run")

	result := &Result{DryRun: opts.DryRun}
	for _, desc := range descs {
		deployment, err := deployOne(desc, opts)
		result.Deployments = append(result.Deployments, *deployment)
		if err != nil {
			logger.Error().Err(err).
				Str("config", deployment.ConfigID).
				Msg("Deployment failed")
			return result, err
		}
		logger.Info().
			Str("config", deployment.ConfigID).
			Str("state", string(deployment.State)).
			Msg("Deployment completed")
	}

	return result, nil
}

func deployOne(desc descriptor.Descriptor, opts Options) (*Deployment, error) {
	logger := logging.GetLogger("deploy")
	common := desc.Common()

	deployment := &Deployment{
		ConfigID: common.ConfigID,
		Kind:     desc.Kind(),
		State:    StateLoaded,
	}
	fail := func(err error) (*Deployment, error) {
		deployment.State = StateFailed
		return deployment, err
	}

	configHdl, err := handler.New(desc, opts.Settings)
	if err != nil {
		return fail(err)
	}
	templateHdl := handler.NewFileTemplateHandler(common.ConfigID, opts.Settings)

	// Step 1: obtain a template, either derived from the live
	// configuration or read from storage.
	var template string
	if common.Templatize {
		if !configHdl.Exists() {
			return fail(errors.Newf(errors.ErrConfigMissing,
				"configuration %s not found but required for templatization", common.ConfigID))
		}
		template, deployment.TemplatizeReport, err = configHdl.Templatize()
		if err != nil {
			return fail(err)
		}
	} else {
		if !templateHdl.Exists() {
			return fail(errors.Newf(errors.ErrTemplateMissing,
				"template %s not found but required for instantiation", templateHdl.TemplateID()))
		}
		template, err = templateHdl.Read()
		if err != nil {
			return fail(err)
		}
	}
	deployment.State = StateTemplateReady

	if common.Persist {
		if opts.DryRun {
			logger.Info().Str("template", templateHdl.TemplateID()).
				Msg("Dry run, skipping template persist")
		} else if err := templateHdl.Write(template); err != nil {
			return fail(err)
		}
	}

	// Step 2: instantiate the template through the secrets provider.
	configText, report, err := handler.Instantiate(template, opts.Provider, opts.Settings)
	if err != nil {
		return fail(err)
	}
	deployment.Config = configText
	deployment.InstantiateReport = report
	deployment.State = StateInstantiated

	if opts.DryRun {
		logger.Info().Str("config", common.ConfigID).
			Msg("Dry run, skipping configuration persist")
		return deployment, nil
	}

	if err := configHdl.Write(configText); err != nil {
		return fail(err)
	}
	deployment.State = StatePersisted
	return deployment, nil
}
