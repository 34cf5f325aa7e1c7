package jasmin

import (
	"context"
	"errors"
	"strings"

	"github.com/mohesu/jasmin-api/internal/jcli"
)

// User holds the attributes printed by "user -s". Credential sections nest
// three levels deep, e.g. mt_messaging_cred -> authorization -> smpps_send.
type User map[string]interface{}

type NewUser struct {
	UID      string `json:"uid" validate:"required"`
	GID      string `json:"gid" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var userDialect = jcli.Dialect{
	Begin:  "user -a",
	Opened: jcli.AddRules("Adding a new User"),
}

func userUpdateDialect(uid string) jcli.Dialect {
	return jcli.Dialect{
		Begin:  "user -u " + uid,
		Opened: jcli.UpdateRules("Updating User", "User"),
	}
}

func parseUser(text string) User {
	u := User{}
	for _, line := range jcli.ShowLines(text) {
		parts := strings.Fields(line)
		switch len(parts) {
		case 2:
			u[parts[0]] = parts[1]
		case 4:
			section, ok := u[parts[0]].(map[string]map[string]string)
			if !ok {
				section = map[string]map[string]string{}
				u[parts[0]] = section
			}
			if section[parts[1]] == nil {
				section[parts[1]] = map[string]string{}
			}
			section[parts[1]][parts[2]] = parts[3]
		}
	}
	return u
}

func (s *Service) GetUser(ctx context.Context, uid string) (User, error) {
	if err := requireFields(field("uid", uid)); err != nil {
		return nil, err
	}
	res, err := s.run(ctx, "user -s "+uid, jcli.ShowRules("User"))
	if err != nil {
		if jcli.KindOf(err) == jcli.KindUnknownObject {
			return nil, jcli.Errorf(jcli.KindUnknownObject, "Unknown user: %s", uid)
		}
		return nil, err
	}
	return parseUser(res.Text), nil
}

// ListUsers lists uids then shows each one. Users that vanish between the
// two commands are skipped.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	rs, err := s.rows(ctx, "user", false)
	if err != nil {
		return nil, err
	}
	users := []User{}
	for _, r := range rs {
		uid := strings.TrimPrefix(r[0], "#")
		status := "enabled"
		if strings.HasPrefix(uid, "!") {
			uid, status = uid[1:], "disabled"
		}
		u, err := s.GetUser(ctx, uid)
		if errors.Is(err, jcli.ErrUnknownObject) {
			continue
		}
		if err != nil {
			return nil, err
		}
		u["status"] = status
		users = append(users, u)
	}
	return users, nil
}

func (s *Service) CreateUser(ctx context.Context, in NewUser) (User, error) {
	err := requireFields(field("uid", in.UID), field("gid", in.GID), field("username", in.Username), field("password", in.Password))
	if err != nil {
		return nil, err
	}
	draft := jcli.Draft{}.
		Set("uid", in.UID).
		Set("gid", in.GID).
		Set("username", in.Username).
		Set("password", in.Password)
	if err := s.create(ctx, userDialect, draft); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, in.UID)
}

// UpdateUser applies token lists such as ["gid", "g2"] or
// ["mt_messaging_cred", "authorization", "smpps_send", "False"] in order.
func (s *Service) UpdateUser(ctx context.Context, uid string, updates [][]string) (User, error) {
	if err := requireFields(field("uid", uid)); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, jcli.Errorf(jcli.KindClientInput, "updates should be a non-empty list of lists")
	}
	var draft jcli.Draft
	for _, u := range updates {
		if len(u) == 0 || strings.TrimSpace(u[0]) == "" {
			return nil, jcli.Errorf(jcli.KindClientInput, "invalid update format: %v", u)
		}
		draft = draft.Set(u[0], strings.Join(u[1:], " "))
	}
	if err := s.create(ctx, userUpdateDialect(uid), draft); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, uid)
}

func (s *Service) DeleteUser(ctx context.Context, uid string) error {
	return s.action(ctx, "user", "-r", uid, "User")
}

func (s *Service) userAction(ctx context.Context, flag, uid string) (User, error) {
	if err := s.action(ctx, "user", flag, uid, "User"); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, uid)
}

func (s *Service) EnableUser(ctx context.Context, uid string) (User, error) {
	return s.userAction(ctx, "-e", uid)
}

func (s *Service) DisableUser(ctx context.Context, uid string) (User, error) {
	return s.userAction(ctx, "-d", uid)
}

// UnbindUser drops the user's SMPP server binds.
func (s *Service) UnbindUser(ctx context.Context, uid string) (User, error) {
	return s.userAction(ctx, "--smpp-unbind", uid)
}

// BanUser unbinds the user and refuses new binds.
func (s *Service) BanUser(ctx context.Context, uid string) (User, error) {
	return s.userAction(ctx, "--smpp-ban", uid)
}
