// Package vinvalidator validates and decodes 17-character Vehicle
// Identification Numbers.
//
// Three operations are provided, each usable on its own:
//
//   - CheckValidity: length and character set (letters without I, O, Q; digits)
//   - VerifyChecksum: the weighted check digit at position 9
//   - GetInfo: country, manufacturer and region from the reference tables
//
// # Quick Start
//
//	if err := vinvalidator.VerifyChecksum("1HGCM82633A004352"); err != nil {
//	    var ce *vin.ChecksumError
//	    if errors.As(err, &ce) {
//	        fmt.Printf("expected %c, got %c\n", ce.Expected, ce.Received)
//	    }
//	}
//
//	info, err := vinvalidator.GetInfo("1HGCM82633A004352")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer info.Release()
//	fmt.Println(info.Country, info.Manufacturer, info.Region)
//
// Input is never normalized: "1hgcm82633a004352" is rejected with
// InvalidCharacters.
//
// # Functional Options
//
//	v, err := vinvalidator.New(
//	    vinvalidator.WithDataset("testdata/wmi.toml"),
//	    vinvalidator.WithMetrics(vinvalidator.NewMetrics()),
//	    vinvalidator.WithStrictChecksum(true),
//	    vinvalidator.WithLookupCache(1024),
//	)
//
// # Reference Data
//
// Tables are built once from an embedded, versioned TOML dataset (see the
// datasets package) or from a file with the same layout, and are never
// modified afterwards. A checksum mismatch never prevents decoding, and
// names missing from the tables decode to "unknown".
package vinvalidator
