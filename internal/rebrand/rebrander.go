// Package rebrand rewrites a .docx policy template for a client: brand name
// replacement, a synthesized header and footer, and logo substitution.
//
// Parts are edited as text with targeted string and regexp edits; no
// WordprocessingML object model is built, so inputs a schema validator
// would reject are still processed.
//
// Usage:
//
//	r := rebrand.New(rebrand.Options{Logger: logger})
//	res, err := r.Rebrand(rebrand.Request{Document: data, TargetBrand: "Globex Inc."})
package rebrand

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/yuanying/docx-rebrand/internal/ooxml"
)

// Rebrander applies the rebranding stages to one package per request.
// It holds no per-request state and is safe for concurrent use.
type Rebrander struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Rebrander.
func New(opts Options) *Rebrander {
	opts.defaults()
	return &Rebrander{
		opts:   opts,
		logger: opts.Logger,
	}
}

// job is the state shared by the stages of a single request.
type job struct {
	pkg      *ooxml.Package
	original string
	target   string
	logo     *Logo
	header   HeaderSpec
	footer   FooterSpec
}

type stage struct {
	name string
	run  func(j *job) []error
}

// stages is the ordered rebranding pipeline. Every stage mutates j.pkg.
var stages = []stage{
	{"replace-brand", func(j *job) []error {
		return ReplaceBrand(j.pkg, j.original, j.target)
	}},
	{"header-footer", func(j *job) []error {
		WriteHeaderFooter(j.pkg, j.header, j.footer)
		return nil
	}},
	{"relationships", func(j *job) []error {
		return single(LinkRelationships(j.pkg, j.logo))
	}},
	{"section-references", func(j *job) []error {
		return single(PatchSectionReferences(j.pkg))
	}},
	{"media", func(j *job) []error {
		ReplaceMedia(j.pkg, j.logo)
		return nil
	}},
	{"content-types", func(j *job) []error {
		return single(RegisterContentTypes(j.pkg, j.logo))
	}},
}

func single(err error) []error {
	if err == nil {
		return nil
	}
	return []error{err}
}

// Rebrand runs the full pipeline. Request-level failures (MissingInput,
// InvalidFormat, SerializationFailure) are returned as *Error; part-level
// failures are logged and listed in Result.Warnings.
func (r *Rebrander) Rebrand(req Request) (*Result, error) {
	if len(req.Document) == 0 {
		return nil, &Error{Kind: MissingInput, Msg: "no file content provided"}
	}
	target := strings.TrimSpace(req.TargetBrand)
	if target == "" {
		return nil, &Error{Kind: MissingInput, Msg: "target brand is required"}
	}
	req.TargetBrand = target

	pkg, err := ooxml.Open(req.Document)
	if err != nil {
		msg := "file is not a valid DOCX package"
		if errors.Is(err, ooxml.ErrNotZip) {
			msg = "file does not appear to be a DOCX document (expected ZIP signature 50 4B)"
		}
		return nil, &Error{Kind: InvalidFormat, Msg: msg, Err: err}
	}

	j := &job{
		pkg:      pkg,
		original: firstNonEmpty(req.OriginalBrand, r.opts.OriginalBrand),
		target:   target,
	}
	if len(req.Logo) > 0 {
		j.logo = PrepareLogo(req.Logo, r.opts.LogoMaxWidth)
		if j.logo.Warning != "" {
			r.logger.Warn("logo kept as supplied", "reason", j.logo.Warning)
		}
	}
	j.header = r.opts.headerSpec(req, j.logo)
	j.footer = r.opts.footerSpec(req)

	var warnings []error
	for _, s := range stages {
		errs := s.run(j)
		for _, e := range errs {
			r.logger.Warn("part skipped", "stage", s.name, "error", e)
		}
		warnings = append(warnings, errs...)
		r.logger.Debug("stage complete", "stage", s.name)
	}

	data, err := pkg.Bytes()
	if err != nil {
		return nil, &Error{Kind: SerializationFailure, Msg: "failed to generate document", Err: err}
	}

	fileName := firstNonEmpty(req.FileName, r.opts.FileName)
	r.logger.Info("document rebranded",
		"brand", target,
		"file", fileName,
		"logo", j.logo != nil,
		"bytes", len(data),
		"warnings", len(warnings))

	return &Result{
		Data:        data,
		FileName:    OutputFileName(target, fileName),
		ContentType: ooxml.MIMEType,
		Warnings:    warnings,
	}, nil
}
