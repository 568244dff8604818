// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package common

import "github.com/sirupsen/logrus"

// Logger is the package-level logger every proof package traces through,
// mirroring gabi's own Logger.Trace(...) call sites in credential.go.
// Default level is Warn so library use stays silent unless a caller opts
// in; Trace/Debug are used only for accumulator state transitions,
// equality-map canonicalization, and proof-construction entry/exit — no
// secret scalar or opening is ever passed to a log call (see WipeBytes
// and the secret-wiping discipline those same call sites observe).
var Logger = logrus.New()

func init() {
	Logger.SetLevel(logrus.WarnLevel)
}
