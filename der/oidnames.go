// Copyright 2025 Killers2. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

// friendlyNames maps the dotted notation of well-known object identifiers to
// their conventional names. The table feeds [Element.Display]; it is not
// consulted during encoding or decoding.
var friendlyNames = map[string]string{
	"1.2.840.113549.1.1.1":   "rsaEncryption",
	"1.2.840.113549.1.1.5":   "sha1WithRSAEncryption",
	"1.2.840.113549.1.1.11":  "sha256WithRSAEncryption",
	"1.2.840.113549.1.1.12":  "sha384WithRSAEncryption",
	"1.2.840.113549.1.1.13":  "sha512WithRSAEncryption",
	"1.2.840.113549.1.7.1":   "pkcs7-data",
	"1.2.840.113549.1.7.2":   "pkcs7-signedData",
	"1.2.840.113549.1.9.1":   "emailAddress",
	"1.2.840.10045.2.1":      "ecPublicKey",
	"1.2.840.10045.4.3.2":    "ecdsaWithSHA256",
	"1.2.840.10045.4.3.3":    "ecdsaWithSHA384",
	"1.2.840.10045.4.3.4":    "ecdsaWithSHA512",
	"1.3.14.3.2.26":          "sha1",
	"2.16.840.1.101.3.4.2.1": "sha256",
	"2.16.840.1.101.3.4.2.2": "sha384",
	"2.16.840.1.101.3.4.2.3": "sha512",
	"2.5.4.3":                "commonName",
	"2.5.4.5":                "serialNumber",
	"2.5.4.6":                "countryName",
	"2.5.4.7":                "localityName",
	"2.5.4.8":                "stateOrProvinceName",
	"2.5.4.10":               "organizationName",
	"2.5.4.11":               "organizationalUnitName",
	"2.5.29.14":              "subjectKeyIdentifier",
	"2.5.29.15":              "keyUsage",
	"2.5.29.17":              "subjectAltName",
	"2.5.29.19":              "basicConstraints",
	"2.5.29.20":              "cRLNumber",
	"2.5.29.31":              "cRLDistributionPoints",
	"2.5.29.35":              "authorityKeyIdentifier",
	"2.5.29.37":              "extKeyUsage",
	"1.3.6.1.5.5.7.1.1":      "authorityInfoAccess",
	"1.3.6.1.5.5.7.3.1":      "serverAuth",
	"1.3.6.1.5.5.7.3.2":      "clientAuth",
	"1.3.6.1.5.5.7.48.1":     "ocsp",
	"1.3.6.1.5.5.7.48.1.1":   "ocspBasic",
	"1.3.6.1.5.5.7.48.1.2":   "ocspNonce",
	"1.3.6.1.5.5.7.48.2":     "caIssuers",
}

// FriendlyName returns the conventional name of the object identifier with the
// given dotted notation, if one is known.
func FriendlyName(dotted string) (string, bool) {
	name, ok := friendlyNames[dotted]
	return name, ok
}
