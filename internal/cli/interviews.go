package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/limbo/ceoos/pkg/entity"
)

type InterviewsCmd struct {
	List InterviewsListCmd `cmd:"" help:"List completed interviews." default:"1"`
	Save InterviewsSaveCmd `cmd:"" help:"Record a completed interview."`
}

type InterviewsListCmd struct {
	Category string `arg:"" optional:"" help:"past-year, identity-values or future-self."`
}

func (i *InterviewsListCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	var responses []entity.InterviewResponse
	if i.Category == "" {
		responses = c.Journal.Interviews.All()
	} else {
		category := entity.InterviewCategory(i.Category)
		if !category.Valid() {
			return fmt.Errorf("unknown interview category %q", i.Category)
		}
		responses = c.Journal.Interviews.ByCategory(category)
	}
	if len(responses) == 0 {
		c.printf("No interviews yet\n")
		return nil
	}
	for _, r := range responses {
		c.printf("%s  %-16s %d answers\n", r.CompletedAt.In(c.today().Location()).Format(time.DateOnly), r.Category, len(r.Responses))
		keys := make([]string, 0, len(r.Responses))
		for k := range r.Responses {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			c.printf("  %s: %s\n", k, r.Responses[k])
		}
	}
	return nil
}

type InterviewsSaveCmd struct {
	Category string            `arg:"" help:"past-year, identity-values or future-self."`
	Answer   map[string]string `short:"a" help:"Answer as question-id=text, repeatable."`
	File     string            `type:"existingfile" help:"JSON object of question-id to answer."`
}

func (i *InterviewsSaveCmd) Run(c *Context) error {
	answers := map[string]string{}
	if i.File != "" {
		if err := decodeFile(i.File, &answers); err != nil {
			return err
		}
	}
	for k, v := range i.Answer {
		answers[k] = v
	}
	if len(answers) == 0 {
		return fmt.Errorf("no answers given")
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	saved, err := c.Journal.Interviews.Save(ctx, entity.InterviewCategory(i.Category), answers)
	if err != nil {
		return err
	}
	c.printf("Saved %s interview with %d answers\n", saved.Category, len(saved.Responses))
	return nil
}
