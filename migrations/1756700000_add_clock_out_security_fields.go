package migrations

import (
	"github.com/pocketbase/pocketbase/core"
)

func init() {
	core.AppMigrations.Register(func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("attendance")
		if err != nil {
			return err
		}

		// Add clock_out_location field
		collection.Fields.Add(&core.TextField{
			Id:   "att_out_loc",
			Name: "clock_out_location",
			Max:  255,
		})

		// Add clock_out_security field
		collection.Fields.Add(&core.TextField{
			Id:   "att_out_sec",
			Name: "clock_out_security",
		})

		// Add device_fingerprint field
		collection.Fields.Add(&core.TextField{
			Id:   "att_fp",
			Name: "device_fingerprint",
		})

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("attendance")
		if err != nil {
			return err
		}

		collection.Fields.RemoveById("att_out_loc")
		collection.Fields.RemoveById("att_out_sec")
		collection.Fields.RemoveById("att_fp")

		return app.Save(collection)
	})
}
