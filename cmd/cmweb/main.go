// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Command cmweb runs the car marketplace web server and its database
// management and offline estimation commands.
package main

import "github.com/momeni/car-market/cmd/cmweb/command"

func main() {
	command.Execute()
}
