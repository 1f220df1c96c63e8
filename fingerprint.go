package gateway

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
)

var errNodeIDInvalid = errors.New("node id is not 48 bits")

type hostInfo struct {
	Node      string
	Machine   string
	Processor string
	MAC       string
}

func (h hostInfo) String() string {
	return strings.Join([]string{h.Node, h.Machine, h.Processor, h.MAC}, "-")
}

// probeHost is swapped out in tests.
var probeHost = func() (hostInfo, error) {
	node, err := os.Hostname()
	if err != nil {
		return hostInfo{}, err
	}

	id := uuid.NodeID()
	if len(id) != 6 {
		return hostInfo{}, errNodeIDInvalid
	}

	return hostInfo{
		Node:      node,
		Machine:   machineArch(),
		Processor: processorModel(),
		MAC:       formatNode(nodeValue(id)),
	}, nil
}

// GenerateHWID returns the hardware id of the current machine: the MD5 hex
// digest of its host name, architecture, processor model and MAC address.
// If the host cannot be probed, the digest of a random UUID is returned
// instead, so the result is always a 32 character hex string but is not
// stable across calls on such hosts.
func GenerateHWID() string {
	info, err := probeHost()
	if err != nil {
		Logger.Warnf("Error probing host for hwid, using random fallback: err=%v", err)

		return hashHWID(uuid.New().String())
	}

	return hashHWID(info.String())
}

// MachineFingerprint returns a stable identifier derived from the OS machine
// id, HMAC-SHA256 hashed with appID so the raw id is never sent anywhere.
func MachineFingerprint(appID string) (string, error) {
	return machineid.ProtectedID(appID)
}

func hashHWID(s string) string {
	sum := md5.Sum([]byte(s))

	return hex.EncodeToString(sum[:])
}

func nodeValue(id []byte) uint64 {
	var n uint64
	for _, b := range id {
		n = n<<8 | uint64(b)
	}

	return n
}

// formatNode renders the low 48 bits of node as a colon separated MAC
// address, most significant octet first.
func formatNode(node uint64) string {
	octets := make([]string, 6)
	for i := range octets {
		octets[i] = fmt.Sprintf("%02x", (node>>(8*(5-i)))&0xff)
	}

	return strings.Join(octets, ":")
}

// machineArch uses the uname spelling of the architecture.
func machineArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "386":
		return "i386"
	case "arm64":
		if runtime.GOOS == "linux" {
			return "aarch64"
		}
		return "arm64"
	default:
		return runtime.GOARCH
	}
}

// processorModel is best effort and returns "" when the model is unknown.
func processorModel() string {
	if runtime.GOOS != "linux" {
		return ""
	}

	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if ok && strings.TrimSpace(key) == "model name" {
			return strings.TrimSpace(value)
		}
	}

	return ""
}
