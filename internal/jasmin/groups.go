package jasmin

import (
	"context"
	"strings"

	"github.com/mohesu/jasmin-api/internal/jcli"
)

type Group struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

var groupDialect = jcli.Dialect{
	Begin:  "group -a",
	Opened: jcli.AddRules("Adding a new Group"),
}

// ListGroups returns every group; disabled groups are listed as "#!gid".
func (s *Service) ListGroups(ctx context.Context) ([]Group, error) {
	res, err := s.run(ctx, "group -l", jcli.ListRules)
	if err != nil {
		return nil, err
	}
	groups := []Group{}
	for _, line := range jcli.TableLines(res.Text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		status := "enabled"
		if len(line) > 1 && line[1] == '!' {
			status = "disabled"
		}
		groups = append(groups, Group{Name: strings.TrimLeft(line, "!#"), Status: status})
	}
	return groups, nil
}

func (s *Service) CreateGroup(ctx context.Context, gid string) error {
	if err := requireFields(field("gid", gid)); err != nil {
		return err
	}
	return s.create(ctx, groupDialect, jcli.Draft{}.Set("gid", gid))
}

func (s *Service) DeleteGroup(ctx context.Context, gid string) error {
	return s.action(ctx, "group", "-r", gid, "Group")
}

func (s *Service) EnableGroup(ctx context.Context, gid string) error {
	return s.action(ctx, "group", "-e", gid, "Group")
}

func (s *Service) DisableGroup(ctx context.Context, gid string) error {
	return s.action(ctx, "group", "-d", gid, "Group")
}
