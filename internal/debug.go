package internal

import (
	"fmt"
	"os"
	"os/user"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/rs/zerolog"
)

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

func ShowVersion(logger zerolog.Logger) {
	logger.Info().Str("version", versioninfo.Short()).Msg("Version")
}

// EnvironmentVars logs the environment variables starting with prefix, sorted
// by name. Values of sensitive looking names are masked.
func EnvironmentVars(logger zerolog.Logger, prefix string) {
	environ := os.Environ()
	sort.Slice(environ, func(i, j int) bool {
		keyI := strings.SplitN(environ[i], "=", 2)[0]
		keyJ := strings.SplitN(environ[j], "=", 2)[0]
		return keyI < keyJ
	})

	dict := zerolog.Dict()
	for _, entry := range environ {
		kv := strings.SplitN(entry, "=", 2)
		if len(kv) != 2 || !strings.HasPrefix(kv[0], prefix) {
			continue
		}
		if sensitiveRegex.MatchString(kv[0]) {
			dict = dict.Str(kv[0], "********")
		} else {
			dict = dict.Str(kv[0], kv[1])
		}
	}
	logger.Info().Dict("env", dict).Msg("Environment variables")
}

func UserInfo(logger zerolog.Logger) {
	event := logger.Info().Int("pid", os.Getpid())

	currentUser, err := user.Current()
	if err != nil {
		logger.Warn().Err(err).Msg("Error getting current user")
	} else {
		event = event.Str("user", fmt.Sprintf("uid=%s(%s) gid=%s", currentUser.Uid, currentUser.Username, currentUser.Gid))
	}

	groups, err := os.Getgroups()
	if err != nil {
		logger.Warn().Err(err).Msg("Error getting groups")
	} else {
		groupNames := make([]string, 0, len(groups))
		for _, gid := range groups {
			group, err := user.LookupGroupId(strconv.Itoa(gid))
			if err != nil {
				groupNames = append(groupNames, strconv.Itoa(gid)) // Append ID if name lookup fails
			} else {
				groupNames = append(groupNames, fmt.Sprintf("%s(%s)", group.Name, group.Gid))
			}
		}
		event = event.Strs("groups", groupNames)
	}

	event.Msg("User info")
}
