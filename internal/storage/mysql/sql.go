package mysql

const restaurantColumns = "id, place_name, main_category, description, road_address_name, scraped_rating, place_url, operating_hours, extras"

const insertRestaurantsPrefix = "INSERT INTO restaurants\n  (" + restaurantColumns + ")\nVALUES "

const restaurantRowPlaceholder = "(?,?,?,?,?,?,?,?,?)"

// VALUES(col) for broad compatibility with 5.7 and 8.0.
const insertRestaurantsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  place_name        = VALUES(place_name),\n" +
	"  main_category     = VALUES(main_category),\n" +
	"  description       = VALUES(description),\n" +
	"  road_address_name = VALUES(road_address_name),\n" +
	"  scraped_rating    = VALUES(scraped_rating),\n" +
	"  place_url         = VALUES(place_url),\n" +
	"  operating_hours   = VALUES(operating_hours),\n" +
	"  extras            = VALUES(extras),\n" +
	"  updated_at        = CURRENT_TIMESTAMP\n"

const deleteRestaurantsSQL = `DELETE FROM restaurants`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Insertion order is not tracked; id order keeps scans stable.
const scanRestaurantsSQL = `
SELECT ` + restaurantColumns + `
FROM restaurants
ORDER BY id
`

const getRestaurantSQL = `
SELECT ` + restaurantColumns + `
FROM restaurants
WHERE id = ?
`
