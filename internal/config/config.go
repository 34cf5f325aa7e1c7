package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Settings struct {
	ListenAddr   string `envconfig:"LISTEN_ADDR" default:":8000"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"/app/data/jasmin-api.db"`
	LogPath      string `envconfig:"LOG_PATH" default:""`
	AuthDisabled bool   `envconfig:"AUTH_DISABLED" default:"false"`

	// jcli console
	TelnetHost     string        `envconfig:"TELNET_HOST" default:"localhost"`
	TelnetPort     int           `envconfig:"TELNET_PORT" default:"8990"`
	TelnetUsername string        `envconfig:"TELNET_USERNAME" default:"jcliadmin"`
	TelnetPassword string        `envconfig:"TELNET_PW" default:"jclipwd"`
	TelnetTimeout  time.Duration `envconfig:"TELNET_TIMEOUT" default:"10s"`

	// Backend discovery: static, ports, kubernetes or docker
	Discovery         string `envconfig:"DISCOVERY" default:"static"`
	DockerPorts       []int  `envconfig:"DOCKER_PORTS" default:""`
	EndpointsFile     string `envconfig:"ENDPOINTS_FILE" default:""`
	K8sNamespace      string `envconfig:"K8S_NAMESPACE" default:"jasmin"`
	K8sLabelSelector  string `envconfig:"K8S_LABEL_SELECTOR" default:"jasmin"`
	DockerHost        string `envconfig:"DOCKER_HOST" default:""`
	DockerLabel       string `envconfig:"DOCKER_LABEL" default:"jasmin"`
	DockerConsolePort string `envconfig:"DOCKER_CONSOLE_PORT" default:"8990/tcp"`

	ProbeSchedule string `envconfig:"PROBE_SCHEDULE" default:"@every 5m"`
}

var Cfg Settings

func Load() {
	if err := envconfig.Process("JASMIN_API", &Cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
}
