package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/templates"
)

var errLintFailed = errors.New("lint: template problems found")

type violation struct {
	file    string
	message string
}

func newLintCmd(a *app) *cobra.Command {
	var openapi bool
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Validate template files",
		Long: `lint parses every JSON/YAML template under the given files or
directories (INTAKE_TEMPLATES_DIR when none are given) and reports invalid
templates and template ids declared more than once. With --openapi the files
are read as OpenAPI documents and checked as derived templates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 && a.cfg.TemplatesDir != "" {
				paths = []string{a.cfg.TemplatesDir}
			}
			if len(paths) == 0 {
				return errors.New("lint: no paths given and INTAKE_TEMPLATES_DIR is unset")
			}
			return lint(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), paths, openapi)
		},
	}
	cmd.Flags().BoolVar(&openapi, "openapi", false, "treat files as OpenAPI documents")
	return cmd
}

func lint(ctx context.Context, out, errOut io.Writer, paths []string, openapi bool) error {
	files, err := collectFiles(paths)
	if err != nil {
		return err
	}

	var violations []violation
	seen := make(map[string]string)
	checked := 0
	for _, file := range files {
		parsed, problems := lintFile(ctx, file, openapi)
		violations = append(violations, problems...)
		for _, tpl := range parsed {
			checked++
			if prev, dup := seen[tpl.ID]; dup {
				violations = append(violations, violation{file: file, message: fmt.Sprintf("template %q already declared in %s", tpl.ID, prev)})
				continue
			}
			seen[tpl.ID] = file
		}
	}

	if len(violations) > 0 {
		sort.SliceStable(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				return violations[i].message < violations[j].message
			}
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(errOut, "%s: %s\n", v.file, v.message)
		}
		return fmt.Errorf("%w (%d)", errLintFailed, len(violations))
	}
	_, err = fmt.Fprintf(out, "%d template(s) in %d file(s) OK\n", checked, len(files))
	return err
}

func lintFile(ctx context.Context, file string, openapi bool) ([]model.FormTemplate, []violation) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, []violation{{file: file, message: err.Error()}}
	}
	if !openapi {
		parsed, err := templates.Parse(raw, file)
		if err != nil {
			return nil, []violation{{file: file, message: err.Error()}}
		}
		return parsed, nil
	}

	parsed, err := templates.FromOpenAPI(ctx, raw, false)
	if err != nil {
		return nil, []violation{{file: file, message: err.Error()}}
	}
	if len(parsed) == 0 {
		return nil, []violation{{file: file, message: "no operations carry the x-wizard extension"}}
	}
	var problems []violation
	valid := parsed[:0]
	for _, tpl := range parsed {
		if err := tpl.Validate(); err != nil {
			problems = append(problems, violation{file: file, message: err.Error()})
			continue
		}
		valid = append(valid, tpl)
	}
	return valid, problems
}

func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !entry.IsDir() && isTemplateFile(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
