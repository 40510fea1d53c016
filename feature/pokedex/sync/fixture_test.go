package sync

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	gosync "sync"
	"testing"
)

// fakeAPI serves a small, consistent slice of the remote API. Bodies use
// {base} for the server URL so nested references point back at it.
type fakeAPI struct {
	srv *httptest.Server

	mu       gosync.Mutex
	lists    map[string][]apiRef
	details  map[string]string
	failures map[string]int
	hits     map[string]int
	gate     chan struct{}
}

type apiRef struct {
	id   int
	name string
}

func named(resource string, id int, name string) string {
	return fmt.Sprintf(`{"name":%q,"url":"{base}/%s/%d/"}`, name, resource, id)
}

func zhName(n string) string {
	return fmt.Sprintf(`{"name":%q,"language":{"name":"zh-Hans","url":""}}`, n)
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{
		lists:    map[string][]apiRef{},
		details:  map[string]string{},
		failures: map[string]int{},
		hits:     map[string]int{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	f.seed()
	return f
}

func (f *fakeAPI) add(resource string, id int, name, body string) {
	f.lists[resource] = append(f.lists[resource], apiRef{id, name})
	f.details[fmt.Sprintf("/%s/%d/", resource, id)] = body
}

// failNext makes the next n requests for path answer 500.
func (f *fakeAPI) failNext(path string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = n
}

func (f *fakeAPI) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	f.mu.Lock()
	f.hits[path]++
	gate := f.gate
	failing := f.failures[path] > 0
	if failing {
		f.failures[path]--
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if failing {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if body, ok := f.details[path]; ok {
		fmt.Fprint(w, strings.ReplaceAll(body, "{base}", f.srv.URL))
		return
	}

	resource := strings.Trim(path, "/")
	refs, ok := f.lists[resource]
	if !ok {
		http.NotFound(w, r)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	end := min(offset+limit, len(refs))

	items := make([]string, 0, limit)
	for _, e := range refs[min(offset, end):end] {
		items = append(items, strings.ReplaceAll(named(resource, e.id, e.name), "{base}", f.srv.URL))
	}
	fmt.Fprintf(w, `{"count":%d,"next":null,"results":[%s]}`, len(refs), strings.Join(items, ","))
}

func learn(move string, moveID int, method string, level int, vg string, vgID int) string {
	return fmt.Sprintf(`{"move":%s,"version_group_details":[{"level_learned_at":%d,"move_learn_method":{"name":%q,"url":""},"version_group":%s}]}`,
		named("move", moveID, move), level, method, named("version-group", vgID, vg))
}

func pokemonBody(id int, name string, isDefault bool, species string, speciesID int, moves []string, abilities string) string {
	return fmt.Sprintf(`{"id":%d,"name":%q,"is_default":%t,
		"species":%s,
		"forms":[%s],
		"types":[{"slot":1,"type":%s}],
		"stats":[{"base_stat":60,"stat":{"name":"hp","url":""}},{"base_stat":90,"stat":{"name":"attack","url":""}},{"base_stat":110,"stat":{"name":"speed","url":""}}],
		"abilities":[%s],
		"moves":[%s],
		"sprites":{"front_default":"https://img.example/%d.png"}}`,
		id, name, isDefault,
		named("pokemon-species", speciesID, species),
		named("pokemon-form", id, name),
		named("type", 13, "electric"),
		abilities,
		strings.Join(moves, ","),
		id)
}

func (f *fakeAPI) seed() {
	f.add("type", 1, "normal", `{"id":1,"name":"normal","names":[`+zhName("一般")+`]}`)
	f.add("type", 13, "electric", `{"id":13,"name":"electric","names":[`+zhName("电")+`]}`)

	f.add("generation", 1, "generation-i", `{"id":1,"name":"generation-i","names":[`+zhName("第一世代")+`],"version_groups":[`+named("version-group", 1, "red-blue")+`]}`)
	f.add("generation", 7, "generation-vii", `{"id":7,"name":"generation-vii","names":[`+zhName("第七世代")+`],"version_groups":[`+named("version-group", 18, "sun-moon")+`]}`)

	f.add("version-group", 1, "red-blue", `{"id":1,"name":"red-blue","order":1,"generation":`+named("generation", 1, "generation-i")+`,"pokedexes":[]}`)
	f.add("version-group", 18, "sun-moon", `{"id":18,"name":"sun-moon","order":17,"generation":`+named("generation", 7, "generation-vii")+`,"pokedexes":[]}`)

	f.add("ability", 9, "static", `{"id":9,"name":"static","names":[`+zhName("静电")+`],
		"effect_entries":[{"effect":"Has a 30% chance\nof paralyzing attackers.","short_effect":"Paralyzes on contact.","language":{"name":"en","url":""}}],
		"flavor_text_entries":[{"flavor_text":"身上带有静电，\n有时会让接触到的对手麻痹。","language":{"name":"zh-Hans","url":""}}],
		"generation":`+named("generation", 3, "generation-iii")+`}`)
	f.add("ability", 31, "lightning-rod", `{"id":31,"name":"lightning-rod","names":[`+zhName("避雷针")+`],"effect_entries":[],"flavor_text_entries":[],"generation":`+named("generation", 3, "generation-iii")+`}`)

	f.add("move", 84, "thunder-shock", `{"id":84,"name":"thunder-shock","names":[`+zhName("电击")+`],"type":`+named("type", 13, "electric")+`,"damage_class":`+named("move-damage-class", 3, "special")+`,"power":40,"accuracy":100,"pp":30,"effect_entries":[],"flavor_text_entries":[],"generation":`+named("generation", 1, "generation-i")+`}`)
	f.add("move", 85, "thunderbolt", `{"id":85,"name":"thunderbolt","names":[`+zhName("十万伏特")+`],"type":`+named("type", 13, "electric")+`,"damage_class":`+named("move-damage-class", 3, "special")+`,"power":90,"accuracy":100,"pp":15,"effect_entries":[],"flavor_text_entries":[],"generation":`+named("generation", 1, "generation-i")+`}`)

	f.add("item", 213, "light-ball", `{"id":213,"name":"light-ball","names":[`+zhName("电气球")+`],"category":`+named("item-category", 12, "species-specific")+`,
		"effect_entries":[],"flavor_text_entries":[],"game_indices":[{"game_index":1,"generation":`+named("generation", 2, "generation-ii")+`}],"sprites":{"default":"https://img.example/light-ball.png"}}`)

	staticAb := `{"ability":` + named("ability", 9, "static") + `,"is_hidden":false,"slot":1}`
	rodAb := `{"ability":` + named("ability", 31, "lightning-rod") + `,"is_hidden":true,"slot":3}`

	f.add("pokemon", 25, "pikachu", pokemonBody(25, "pikachu", true, "pikachu", 25, []string{
		learn("thunderbolt", 85, "machine", 0, "red-blue", 1),
		learn("thunder-shock", 84, "level-up", 1, "red-blue", 1),
		learn("thunder-shock", 84, "level-up", 1, "sun-moon", 18),
	}, staticAb+","+rodAb))
	f.add("pokemon", 26, "raichu", pokemonBody(26, "raichu", true, "raichu", 26, []string{
		learn("thunderbolt", 85, "machine", 0, "red-blue", 1),
	}, staticAb+","+rodAb))
	f.add("pokemon", 10100, "raichu-alola", pokemonBody(10100, "raichu-alola", false, "raichu", 26, []string{
		learn("thunderbolt", 85, "machine", 0, "sun-moon", 18),
	}, staticAb))

	f.details["/pokemon-species/25/"] = `{"id":25,"name":"pikachu","names":[` + zhName("皮卡丘") + `],"gender_rate":4,"generation":` + named("generation", 1, "generation-i") + `,
		"varieties":[{"is_default":true,"pokemon":` + named("pokemon", 25, "pikachu") + `}]}`
	f.details["/pokemon-species/26/"] = `{"id":26,"name":"raichu","names":[` + zhName("雷丘") + `],"gender_rate":4,"generation":` + named("generation", 1, "generation-i") + `,
		"varieties":[{"is_default":true,"pokemon":` + named("pokemon", 26, "raichu") + `},{"is_default":false,"pokemon":` + named("pokemon", 10100, "raichu-alola") + `}]}`

	f.details["/pokemon-form/25/"] = `{"id":25,"name":"pikachu","form_name":"","is_default":true,"version_group":` + named("version-group", 1, "red-blue") + `}`
	f.details["/pokemon-form/26/"] = `{"id":26,"name":"raichu","form_name":"","is_default":true,"version_group":` + named("version-group", 1, "red-blue") + `}`
	f.details["/pokemon-form/10100/"] = `{"id":10100,"name":"raichu-alola","form_name":"alola","is_default":true,"version_group":` + named("version-group", 18, "sun-moon") + `}`

	f.add("pokedex", 2, "kanto", `{"id":2,"name":"kanto","version_groups":[`+named("version-group", 1, "red-blue")+`],
		"pokemon_entries":[{"entry_number":25,"pokemon_species":`+named("pokemon-species", 25, "pikachu")+`},{"entry_number":26,"pokemon_species":`+named("pokemon-species", 26, "raichu")+`}]}`)
}
