package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rvalen1123/msc-admin-assist-sub001/internal/export"
	"github.com/rvalen1123/msc-admin-assist-sub001/internal/service"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/redirect"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/renderers/tui"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/wizard"
)

type fillOptions struct {
	submittedBy string
	noBrowser   bool
	locale      string
}

func newFillCmd(a *app) *cobra.Command {
	opts := fillOptions{}
	cmd := &cobra.Command{
		Use:   "fill <template>",
		Short: "Walk a wizard interactively and submit it",
		Long: `fill prompts for every step of the named template, offers Back and
Continue between steps, collects products on order steps, and stores the
submission. Templates with signing then hand off to DocuSeal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.fill(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.submittedBy, "as", "cli", "name recorded as the submitter")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "print the signing URL instead of opening it")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "locale for prompts")
	return cmd
}

func (a *app) fill(ctx context.Context, out io.Writer, templateID string, opts fillOptions) error {
	svc, records, err := a.services(ctx)
	if err != nil {
		return err
	}
	defer records.Close()

	session, err := svc.Start(ctx, templateID)
	if err != nil {
		return err
	}
	products, err := svc.ProductLabels(ctx)
	if err != nil {
		return err
	}

	rendererOptions := []tui.Option{tui.WithOutputFormat(tui.OutputFormatPrettyText)}
	if a.driver != nil {
		rendererOptions = append(rendererOptions, tui.WithPromptDriver(a.driver))
	} else {
		rendererOptions = append(rendererOptions, tui.WithPromptDriver(tui.NewSurveyDriver(out)))
	}
	renderer, err := tui.New(rendererOptions...)
	if err != nil {
		return err
	}

	tpl := session.Template()
	var outcome service.Outcome
	submit := func(ctx context.Context, sub wizard.Submission) error {
		persisted, err := svc.Persist(ctx, tpl, sub, opts.submittedBy)
		if err != nil {
			return err
		}
		outcome = persisted
		return nil
	}

	runnerOptions := []tui.RunnerOption{
		tui.WithRenderOptions(render.RenderOptions{Products: products, Locale: opts.locale}),
		tui.WithSigningResolver(func(sub wizard.Submission) string {
			return svc.ResolveSigningURL(tpl, sub.Data)
		}),
		tui.WithRedirectOptions(redirect.WithLogger(a.logger)),
	}
	switch {
	case a.opener != nil:
		runnerOptions = append(runnerOptions, tui.WithOpener(a.opener))
	case opts.noBrowser:
		runnerOptions = append(runnerOptions, tui.WithOpener(redirect.OpenerFunc(func(_ context.Context, url string) error {
			_, err := fmt.Fprintf(out, "Sign here: %s\n", url)
			return err
		})))
	}
	runner, err := tui.NewRunner(renderer, submit, runnerOptions...)
	if err != nil {
		return err
	}

	result, err := runner.Run(ctx, session)
	if err != nil {
		return err
	}
	a.logger.Info("wizard submitted",
		zap.String("template", templateID),
		zap.String("submission", outcome.Submission.ID),
		zap.Stringer("redirect", result.Redirect),
	)
	return printOutcome(out, outcome)
}

func printOutcome(out io.Writer, outcome service.Outcome) error {
	if _, err := fmt.Fprintf(out, "Submitted %s as %s (%s)\n",
		outcome.Submission.TemplateID, outcome.Submission.ID, outcome.Submission.Status); err != nil {
		return err
	}
	if order := outcome.Order; order != nil {
		if _, err := fmt.Fprintf(out, "Order %s: %d item(s), total %s\n",
			order.ID, len(order.Items), export.Money(order.TotalCents())); err != nil {
			return err
		}
	}
	return nil
}
