/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package config contains the configuration of the JSONiq runtime.

The configuration is a simple map which is either loaded from a JSON file or
populated with the default values. Components read their settings through
the typed helper functions Str, Int and Bool.
*/
package config

import (
	"fmt"
	"strconv"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/fileutil"
)

// Global variables
// ================

/*
ProductVersion is the current version of the runtime
*/
const ProductVersion = "1.0.0"

/*
DefaultConfigFile is the default config file which will be used to configure the runtime
*/
var DefaultConfigFile = "jsoniq.config.json"

/*
Known configuration options for the runtime
*/
const (
	ItemCacheMaxSize       = "ItemCacheMaxSize"
	ItemCacheMaxAgeSeconds = "ItemCacheMaxAgeSeconds"
	PartitionWorkers       = "PartitionWorkers"
	PartitionLogHistory    = "PartitionLogHistory"
	LogLevel               = "LogLevel"
	LocationDocuments      = "LocationDocuments"
)

/*
DefaultConfig is the defaut configuration
*/
var DefaultConfig = map[string]interface{}{
	ItemCacheMaxSize:       1000,
	ItemCacheMaxAgeSeconds: 0,
	PartitionWorkers:       4,
	PartitionLogHistory:    100.0,
	LogLevel:               "Info",
	LocationDocuments:      "documents",
}

/*
Config is the actual config which is used
*/
var Config map[string]interface{}

func init() {
	LoadDefaultConfig()
}

/*
LoadConfigFile loads a given config file. If the config file does not exist it is
created with the default options.
*/
func LoadConfigFile(configfile string) error {
	var err error

	Config, err = fileutil.LoadConfig(configfile, DefaultConfig)

	return err
}

/*
LoadDefaultConfig loads the default configuration.
*/
func LoadDefaultConfig() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}

	Config = data
}

// Helper functions
// ================

/*
Str reads a config value as a string value.
*/
func Str(key string) string {
	return fmt.Sprint(Config[key])
}

/*
Int reads a config value as an int value.
*/
func Int(key string) int64 {

	// JSON decoded numbers are float64 values

	val := fmt.Sprint(Config[key])
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		val = strconv.FormatInt(int64(f), 10)
	}

	ret, err := strconv.ParseInt(val, 10, 64)

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}

/*
Bool reads a config value as a boolean value.
*/
func Bool(key string) bool {
	ret, err := strconv.ParseBool(fmt.Sprint(Config[key]))

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}
