// Package jclitest provides an in-memory jcli console for tests. It speaks
// the same prompts, echo and reply texts as the real console for the
// commands the API drives.
package jclitest

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
)

const (
	readyPrompt       = "jcli : "
	interactivePrompt = "> "
)

// Object is one configured item: a group, user, filter, route or connector.
type Object struct {
	ID      string
	Enabled bool
	Keys    []string
	Values  map[string]string
}

func (o *Object) set(key, value string) {
	if _, ok := o.Values[key]; !ok {
		o.Keys = append(o.Keys, key)
	}
	o.Values[key] = value
}

func (o *Object) get(key string) string { return o.Values[key] }

type family struct {
	label     string // noun in messages, e.g. "Group"
	plural    string
	banner    string
	idKey     string
	required  []string
	keys      map[string]bool
	immutable map[string]bool
	header    string
	row       func(o *Object) string
	hidden    map[string]bool
	validate  func(o *Object) string
}

var filterParams = map[string]string{
	"connectorfilter":       "cid",
	"userfilter":            "uid",
	"groupfilter":           "gid",
	"sourceaddrfilter":      "source_addr",
	"destinationaddrfilter": "destination_addr",
	"shortmessagefilter":    "short_message",
	"dateintervalfilter":    "dateInterval",
	"timeintervalfilter":    "timeInterval",
	"tagfilter":             "tag",
	"evalpyfilter":          "pyCode",
	"transparentfilter":     "",
}

func set(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

func routeRow(withRate bool) func(o *Object) string {
	return func(o *Object) string {
		conns := o.get("connector")
		if conns == "" {
			conns = o.get("connectors")
		}
		conns = strings.ReplaceAll(conns, ";", ", ")
		filters := strings.ReplaceAll(o.get("filters"), ";", ", ")
		cols := []string{"#" + o.ID, o.get("type")}
		if withRate {
			rate := o.get("rate")
			if rate == "" {
				rate = "0.0"
			}
			cols = append(cols, rate)
		}
		cols = append(cols, conns)
		if filters != "" {
			cols = append(cols, filters)
		}
		return strings.Join(cols, "    ")
	}
}

var families = map[string]*family{
	"group": {
		label: "Group", plural: "Groups", banner: "Adding a new Group: (ok: save, ko: exit)",
		idKey: "gid", required: []string{"gid"}, keys: set("gid"),
		header: "#Group id",
		row: func(o *Object) string {
			if !o.Enabled {
				return "#!" + o.ID
			}
			return "#" + o.ID
		},
	},
	"user": {
		label: "User", plural: "Users", banner: "Adding a new User: (ok: save, ko: exit)",
		idKey: "uid", required: []string{"uid", "gid", "username", "password"},
		immutable: set("uid"), hidden: set("password"),
		header: "#User id          Group id         Username         Balance MT SMS Throughput",
		row: func(o *Object) string {
			id := "#" + o.ID
			if !o.Enabled {
				id = "#!" + o.ID
			}
			return fmt.Sprintf("%-16s %-16s %-16s ND      ND     ND/ND", id, o.get("gid"), o.get("username"))
		},
	},
	"filter": {
		label: "Filter", plural: "Filters", banner: "Adding a new Filter: (ok: save, ko: exit)",
		idKey: "fid", required: []string{"type", "fid"},
		header: "#Filter id        Type                   Routes Description",
		row: func(o *Object) string {
			desc := "<T>"
			if p := filterParams[o.get("type")]; p != "" {
				desc = fmt.Sprintf("<%s (%s=%s)>", strings.ToUpper(p[:1]), p, o.get(p))
			}
			return fmt.Sprintf("#%-16s %-22s MO MT  %s", o.ID, o.get("type"), desc)
		},
		validate: func(o *Object) string {
			p, ok := filterParams[o.get("type")]
			if !ok {
				return "Unknown filter type: " + o.get("type")
			}
			if p != "" && o.get(p) == "" {
				return "You must set these options before saving: " + p
			}
			return ""
		},
	},
	"morouter": {
		label: "MO Route", plural: "MO Routes", banner: "Adding a new MO Route: (ok: save, ko: exit)",
		idKey: "order", required: []string{"type"},
		header: "#Order Type                    Connector ID(s)                  Filter(s)",
		row:    routeRow(false),
	},
	"mtrouter": {
		label: "MT Route", plural: "MT Routes", banner: "Adding a new MT Route: (ok: save, ko: exit)",
		idKey: "order", required: []string{"type", "rate"},
		header: "#Order Type                    Rate       Connector ID(s)                  Filter(s)",
		row:    routeRow(true),
	},
	"smppccm": {
		label: "connector", plural: "connectors", banner: "Adding a new connector: (ok: save, ko: exit)",
		idKey: "cid", required: []string{"cid"}, immutable: set("cid"),
		header: "#Connector id                        Service Session          Starts Stops",
		row: func(o *Object) string {
			status := "stopped"
			session := "None"
			if o.Enabled {
				status, session = "started", "BOUND_TRX"
			}
			return fmt.Sprintf("#%-35s %-7s %-16s %s      %s", o.ID, status, session, o.get("starts"), o.get("stops"))
		},
	},
	"httpccm": {
		label: "connector", plural: "Http Connectors", banner: "Adding a new Httpcc: (ok: save, ko: exit)",
		idKey: "cid", required: []string{"cid", "url", "method"}, keys: set("cid", "url", "method"),
		header: "#Httpcc id        Type                   Method URL",
		row: func(o *Object) string {
			return fmt.Sprintf("#%-16s %-22s %-6s %s", o.ID, "HttpConnector", strings.ToUpper(o.get("method")), o.get("url"))
		},
	},
}

// Backend is one simulated console instance with its own configuration.
type Backend struct {
	Username string
	Password string

	mu      sync.Mutex
	stores  map[string][]*Object
	lines   []string
	silent  map[string]bool
	persist int
	loads   int
}

func NewBackend() *Backend {
	return &Backend{
		Username: "jcliadmin",
		Password: "jclipwd",
		stores:   map[string][]*Object{},
		silent:   map[string]bool{},
	}
}

// Silence makes the console swallow every line starting with prefix.
func (b *Backend) Silence(prefix string) {
	b.mu.Lock()
	b.silent[prefix] = true
	b.mu.Unlock()
}

// Seed stores an object directly. kv alternates keys and values.
func (b *Backend) Seed(cmd, id string, kv ...string) *Object {
	b.mu.Lock()
	defer b.mu.Unlock()
	fam := families[cmd]
	o := &Object{ID: id, Enabled: true, Values: map[string]string{}}
	o.set(fam.idKey, id)
	for i := 0; i+1 < len(kv); i += 2 {
		o.set(kv[i], kv[i+1])
	}
	if cmd == "smppccm" {
		o.Enabled = false
		o.set("starts", "0")
		o.set("stops", "0")
	}
	b.stores[cmd] = append(b.stores[cmd], o)
	return o
}

// Find returns a stored object or nil.
func (b *Backend) Find(cmd, id string) *Object {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.find(cmd, id)
}

func (b *Backend) find(cmd, id string) *Object {
	for _, o := range b.stores[cmd] {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Lines returns every command line received after login, in order.
func (b *Backend) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// Count returns how many times line was received.
func (b *Backend) Count(line string) int {
	n := 0
	for _, l := range b.Lines() {
		if l == line {
			n++
		}
	}
	return n
}

func (b *Backend) Persists() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.persist
}

func (b *Backend) Loads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loads
}

// dialogue is the state of an open interactive definition.
type dialogue struct {
	cmd      string
	fam      *family
	obj      *Object
	updating bool
}

type conn struct {
	b   *Backend
	c   net.Conn
	r   *bufio.Reader
	dlg *dialogue
}

// Serve runs the console protocol on c until the client leaves.
func (b *Backend) Serve(c net.Conn) {
	defer c.Close()
	s := &conn{b: b, c: c, r: bufio.NewReader(c)}

	if !s.write("Authentication required.\r\n\r\nUsername: ") {
		return
	}
	user, ok := s.read()
	if !ok || !s.write(user+"\r\nPassword: ") {
		return
	}
	pass, ok := s.read()
	if !ok {
		return
	}
	if user != b.Username || pass != b.Password {
		s.write("\r\nIncorrect Username/Password.\r\n")
		return
	}
	if !s.write("\r\nWelcome to Jasmin console\r\nType help or ? to list commands.\r\n\r\nSession ref: 1\r\n" + readyPrompt) {
		return
	}

	for {
		line, ok := s.read()
		if !ok {
			return
		}
		b.mu.Lock()
		b.lines = append(b.lines, line)
		quiet := false
		for prefix := range b.silent {
			if strings.HasPrefix(line, prefix) {
				quiet = true
			}
		}
		b.mu.Unlock()
		if quiet {
			continue
		}
		if line == "quit" && s.dlg == nil {
			s.write(line + "\r\n")
			return
		}
		reply := s.handle(line)
		if !s.write(line + "\r\n" + reply) {
			return
		}
	}
}

func (s *conn) read() (string, bool) {
	line, err := s.r.ReadString('\n')
	if err != nil {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

func (s *conn) write(text string) bool {
	_, err := s.c.Write([]byte(text))
	return err == nil
}

func (s *conn) handle(line string) string {
	if s.dlg != nil {
		return s.step(line)
	}
	b := s.b
	switch line {
	case "":
		return readyPrompt
	case "persist":
		b.mu.Lock()
		b.persist++
		b.mu.Unlock()
		return "Persisted configuration to the default profile\r\n" + readyPrompt
	case "load":
		b.mu.Lock()
		b.loads++
		b.mu.Unlock()
		return "Loaded configuration from the default profile\r\n" + readyPrompt
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return readyPrompt
	}
	fam, ok := families[fields[0]]
	if !ok || len(fields) < 2 {
		return "Incorrect command: " + fields[0] + "\r\n" + readyPrompt
	}
	cmd, flag := fields[0], fields[1]
	id := ""
	if len(fields) > 2 {
		id = fields[2]
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch flag {
	case "-l":
		return s.list(cmd, fam)
	case "-a":
		s.dlg = &dialogue{cmd: cmd, fam: fam, obj: &Object{Enabled: true, Values: map[string]string{}}}
		return fam.banner + "\r\n" + interactivePrompt
	case "-f":
		b.stores[cmd] = nil
		return "Successfully flushed " + fam.label + " table\r\n" + readyPrompt
	}

	if id == "" {
		return "Usage: " + cmd + " [options]\r\n" + readyPrompt
	}
	o := b.find(cmd, id)
	if o == nil {
		return fmt.Sprintf("Unknown %s: %s\r\n%s", fam.label, id, readyPrompt)
	}

	switch flag {
	case "-s":
		return s.show(fam, o)
	case "-u":
		s.dlg = &dialogue{cmd: cmd, fam: fam, obj: o, updating: true}
		return fmt.Sprintf("Updating %s id [%s]: (ok: save, ko: exit)\r\n%s", fam.label, id, interactivePrompt)
	case "-r":
		objs := b.stores[cmd]
		for i, x := range objs {
			if x == o {
				b.stores[cmd] = append(objs[:i], objs[i+1:]...)
				break
			}
		}
		return fmt.Sprintf("Successfully removed %s id:%s\r\n%s", fam.label, id, readyPrompt)
	case "-e":
		o.Enabled = true
		return fmt.Sprintf("Successfully enabled %s id:%s\r\n%s", fam.label, id, readyPrompt)
	case "-d":
		o.Enabled = false
		return fmt.Sprintf("Successfully disabled %s id:%s\r\n%s", fam.label, id, readyPrompt)
	case "--smpp-unbind":
		return fmt.Sprintf("Successfully unbound %s id:%s\r\n%s", fam.label, id, readyPrompt)
	case "--smpp-ban":
		return fmt.Sprintf("Successfully unbound and banned %s id:%s\r\n%s", fam.label, id, readyPrompt)
	case "-1":
		if o.Enabled {
			return "Failed starting connector, check log for details\r\n" + readyPrompt
		}
		o.Enabled = true
		o.set("starts", fmt.Sprint(atoi(o.get("starts"))+1))
		return fmt.Sprintf("Successfully started connector id:%s\r\n%s", id, readyPrompt)
	case "-0":
		if !o.Enabled {
			return "Failed stopping connector, check log for details\r\n" + readyPrompt
		}
		o.Enabled = false
		o.set("stops", fmt.Sprint(atoi(o.get("stops"))+1))
		return fmt.Sprintf("Successfully stopped connector id:%s\r\n%s", id, readyPrompt)
	}
	return "Usage: " + cmd + " [options]\r\n" + readyPrompt
}

func atoi(s string) int {
	n := 0
	fmt.Sscan(s, &n)
	return n
}

func (s *conn) list(cmd string, fam *family) string {
	objs := append([]*Object(nil), s.b.stores[cmd]...)
	sort.SliceStable(objs, func(i, j int) bool { return objs[i].ID < objs[j].ID })
	var sb strings.Builder
	sb.WriteString(fam.header + "\r\n")
	for _, o := range objs {
		sb.WriteString(fam.row(o) + "\r\n")
	}
	fmt.Fprintf(&sb, "Total %s: %d\r\n%s", fam.plural, len(objs), readyPrompt)
	return sb.String()
}

func (s *conn) show(fam *family, o *Object) string {
	var sb strings.Builder
	for _, k := range o.Keys {
		if fam.hidden[k] || k == "starts" || k == "stops" {
			continue
		}
		fmt.Fprintf(&sb, "%s %s\r\n", k, o.Values[k])
	}
	return sb.String() + readyPrompt
}

func (s *conn) step(line string) string {
	d := s.dlg
	fam := d.fam
	switch line {
	case "ko":
		s.dlg = nil
		return readyPrompt
	case "ok":
		return s.commit()
	}

	parts := strings.Fields(line)
	if len(parts) < 2 {
		return fmt.Sprintf("Error: %s key %q requires a value\r\n%s", fam.label, line, interactivePrompt)
	}
	key := strings.Join(parts[:len(parts)-1], " ")
	value := parts[len(parts)-1]
	if len(parts) == 2 || d.cmd == "filter" || d.cmd == "httpccm" {
		key, value = parts[0], strings.Join(parts[1:], " ")
	}

	if d.updating && fam.immutable[key] {
		return fmt.Sprintf("%s can not be modified.\r\n%s", key, interactivePrompt)
	}
	if fam.keys != nil && !fam.keys[key] {
		return fmt.Sprintf("Unknown %s key: %s\r\n%s", fam.label, key, interactivePrompt)
	}
	if d.cmd == "filter" && key != "type" && key != "fid" {
		if p, ok := filterParams[d.obj.get("type")]; !ok || p != key {
			return fmt.Sprintf("Unknown Filter key: %s\r\n%s", key, interactivePrompt)
		}
	}
	if d.cmd == "smppccm" && key == "port" && atoi(value) == 0 {
		s.dlg = nil
		return "Error: port syntax is invalid\r\n" + readyPrompt
	}
	d.obj.set(key, value)
	return interactivePrompt
}

func (s *conn) commit() string {
	d := s.dlg
	fam := d.fam
	o := d.obj

	if d.cmd == "httpccm" {
		if !strings.HasPrefix(o.get("url"), "http") {
			return "HttpConnector url syntax is invalid\r\n" + interactivePrompt
		}
		if m := strings.ToUpper(o.get("method")); m != "GET" && m != "POST" {
			return "HttpConnector method syntax is invalid, must be GET or POST\r\n" + interactivePrompt
		}
	}
	if !d.updating {
		var missing []string
		for _, k := range fam.required {
			if o.get(k) == "" {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			return "You must set these options before saving: " + strings.Join(missing, ", ") + "\r\n" + interactivePrompt
		}
		if fam.validate != nil {
			if msg := fam.validate(o); msg != "" {
				return msg + "\r\n" + interactivePrompt
			}
		}
	}
	if d.cmd == "mtrouter" || d.cmd == "morouter" {
		if o.get("type") == "defaultroute" {
			o.set("order", "0")
		}
	}

	s.dlg = nil
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if d.updating {
		return fmt.Sprintf("Successfully updated %s [%s]\r\n%s", fam.label, o.ID, readyPrompt)
	}
	o.ID = o.get(fam.idKey)
	if d.cmd == "smppccm" {
		o.Enabled = false
		o.set("starts", "0")
		o.set("stops", "0")
	}
	if existing := s.b.find(d.cmd, o.ID); existing != nil {
		return fmt.Sprintf("Error: %s id [%s] already exists\r\n%s", fam.label, o.ID, readyPrompt)
	}
	s.b.stores[d.cmd] = append(s.b.stores[d.cmd], o)
	return fmt.Sprintf("Successfully added %s [%s]\r\n%s", fam.label, o.ID, readyPrompt)
}

// Network routes dials by address to registered backends over in-memory
// pipes.
type Network struct {
	mu       sync.Mutex
	backends map[string]*Backend
	dials    int
}

func NewNetwork() *Network {
	return &Network{backends: map[string]*Backend{}}
}

// Add registers b at addr ("host:port").
func (n *Network) Add(addr string, b *Backend) *Backend {
	n.mu.Lock()
	n.backends[addr] = b
	n.mu.Unlock()
	return b
}

func (n *Network) Dials() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dials
}

func (n *Network) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	n.mu.Lock()
	n.dials++
	b, ok := n.backends[addr]
	n.mu.Unlock()
	if !ok {
		return nil, &net.OpError{Op: "dial", Net: network, Err: fmt.Errorf("connection refused: %s", addr)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client, server := net.Pipe()
	go b.Serve(server)
	return client, nil
}
